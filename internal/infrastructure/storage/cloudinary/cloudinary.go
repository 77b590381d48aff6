// Package cloudinary adapts the Cloudinary blob store: it signs direct
// browser uploads and destroys assets orphaned by deletes and replacements.
package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config carries the Cloudinary account credentials.
type Config struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
}

// Storage wraps the Cloudinary SDK client plus the raw credentials needed to
// sign upload parameters ourselves.
type Storage struct {
	cld *cloudinary.Cloudinary
	cfg Config
	log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Storage, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Storage{cld: cld, cfg: cfg, log: log}, nil
}

// UploadParams is everything a client needs to upload directly to Cloudinary
// without the API secret ever leaving the server.
type UploadParams struct {
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// SignUpload produces signed direct-upload parameters scoped to the user's
// folder.
func (s *Storage) SignUpload(userID string) UploadParams {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	folder := s.cfg.UploadFolder + "/" + userID

	params := map[string]string{
		"timestamp": timestamp,
		"folder":    folder,
	}

	return UploadParams{
		Timestamp: timestamp,
		Signature: s.sign(params),
		APIKey:    s.cfg.APIKey,
		CloudName: s.cfg.CloudName,
		Folder:    folder,
	}
}

// sign builds the Cloudinary request signature: parameters sorted by key,
// joined as k=v with &, the API secret appended, SHA-1 hashed.
func (s *Storage) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	payload := strings.Join(parts, "&") + s.cfg.APISecret

	h := sha1.New()
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// Destroy removes the given assets. Failures on individual assets are logged
// and the first error is returned after attempting the rest, so one stuck
// asset does not strand the others.
func (s *Storage) Destroy(ctx context.Context, publicIDs []string) error {
	var firstErr error
	for _, id := range publicIDs {
		_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
		if err != nil {
			s.log.Warn().Err(err).Str("public_id", id).Msg("asset destroy failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
