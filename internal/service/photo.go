package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/config"
)

// PhotoService stores recipe photos in S3.
type PhotoService struct {
	s3Config *config.S3Config
}

func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// UploadRecipePhoto uploads photo bytes under a fresh key and returns
// the public URL.
func (s *PhotoService) UploadRecipePhoto(ctx context.Context, recipeID uuid.UUID, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	fileName := fmt.Sprintf("recipe-photos/%s/%s", recipeID, uuid.New().String())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[PhotoService] uploaded recipe photo: %s", publicURL)

	return publicURL, nil
}
