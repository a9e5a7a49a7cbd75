package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"clinicbot/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ProofStorage persists payment-proof images and returns a durable reference.
type ProofStorage interface {
	UploadProof(ctx context.Context, userID string, data []byte) (string, error)
}

// CloudinaryStorage implements ProofStorage on Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage() (*CloudinaryStorage, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

// UploadProof stores the image under the comprobantes folder and returns its
// secure URL. The URL is what gets recorded on the appointment.
func (s *CloudinaryStorage) UploadProof(ctx context.Context, userID string, data []byte) (string, error) {
	publicID := fmt.Sprintf("proof_%s_%d", userID, time.Now().Unix())
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   "comprobantes",
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload payment proof: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("no URL returned for uploaded proof")
	}
	return result.SecureURL, nil
}
