package storage

import (
	"strings"

	legacy_errors "legacybook/pkg/errors"
)

// Buckets maps media kinds to their backing S3 buckets. All three are
// private; access goes through signed URLs only.
type Buckets struct {
	Audio string
	Video string
	Image string
}

// Object path prefixes understood by the router. Audio always lands at
// audio/{submissionId}.webm, video at videos/{submissionId}.{ext}.
const (
	AudioPrefix = "audio/"
	VideoPrefix = "videos/"
	ImagePrefix = "images/"
)

// BucketFor routes an object path to its bucket by prefix. Paths outside the
// known prefixes are rejected so callers cannot reach arbitrary buckets.
func (b Buckets) BucketFor(path string) (string, error) {
	switch {
	case strings.HasPrefix(path, AudioPrefix):
		return b.Audio, nil
	case strings.HasPrefix(path, VideoPrefix):
		return b.Video, nil
	case strings.HasPrefix(path, ImagePrefix):
		return b.Image, nil
	}
	return "", legacy_errors.ErrInvalidBucket
}

// AudioPath builds the canonical audio object path for a submission.
func AudioPath(submissionID string) string {
	return AudioPrefix + submissionID + ".webm"
}

// VideoPath builds the canonical video object path for a submission. The
// extension comes from the declared MIME subtype, defaulting to mp4.
func VideoPath(submissionID, contentType string) string {
	ext := "mp4"
	if _, subtype, found := strings.Cut(contentType, "/"); found && subtype != "" {
		ext = subtype
	}
	return VideoPrefix + submissionID + "." + ext
}
