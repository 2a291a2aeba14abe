package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Denis-Shtanskiy/foodgram/config"
	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
)

// ImageService stores recipe images submitted as base64 data URIs.
type ImageService struct {
	s3Config *config.S3Config
	log      *zap.Logger
}

func NewImageService(s3Config *config.S3Config, log *zap.Logger) *ImageService {
	return &ImageService{s3Config: s3Config, log: log}
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeDataURI splits a "data:<type>;base64,<payload>" string into raw
// bytes and a content type.
func DecodeDataURI(dataURI string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, "", apperr.Validation("image", "image must be a base64 data URI")
	}
	meta, payload, found := strings.Cut(dataURI[len("data:"):], ",")
	if !found {
		return nil, "", apperr.Validation("image", "malformed data URI")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if _, ok := imageExtensions[contentType]; !ok {
		return nil, "", apperr.Validation("image", "unsupported image type "+contentType)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperr.Validation("image", "invalid base64 image payload")
	}
	if len(raw) == 0 {
		return nil, "", apperr.Validation("image", "image is required")
	}
	return raw, contentType, nil
}

// UploadRecipeImage decodes the submitted data URI, stores the bytes under
// a fresh key and returns the public URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, dataURI string) (string, error) {
	raw, contentType, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), imageExtensions[contentType])
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	s.log.Info("recipe image uploaded", zap.String("key", key))
	return url, nil
}
