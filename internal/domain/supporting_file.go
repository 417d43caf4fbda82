package domain

import (
	"context"
	"time"
)

// AttachmentTarget names the single item a supporting file is attached to.
type AttachmentTarget struct {
	Kind ContentKind `json:"kind"`
	ID   string      `json:"id"`
}

// AttachableKinds are the kinds that may carry supporting files.
var AttachableKinds = []ContentKind{KindDiploma, KindCertification, KindExperience, KindTraining, KindProject}

func (a AttachmentTarget) Valid() bool {
	for _, k := range AttachableKinds {
		if a.Kind == k {
			return a.ID != ""
		}
	}
	return false
}

type ProofType string

const (
	ProofImage    ProofType = "image"
	ProofVideo    ProofType = "video"
	ProofPDF      ProofType = "pdf"
	ProofDocument ProofType = "document"
)

// SupportingFile is evidence attached to one item. Its bytes live in object storage.
type SupportingFile struct {
	ContentBase
	Target      AttachmentTarget `json:"target"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ProofType   ProofType        `json:"proof_type"`
	ObjectKey   string           `json:"-"`
	FileName    string           `json:"file_name"`
	FileSize    int64            `json:"file_size"`
	MimeType    string           `json:"mime_type"`
}

// ParentState is the classification data of the item a file hangs off.
type ParentState struct {
	ContentBase
}

type SupportingFileRepository interface {
	GetByID(ctx context.Context, id string) (*SupportingFile, error)
	GetParent(ctx context.Context, target AttachmentTarget) (*ParentState, error)
}

// FilePresigner issues short-lived download links for stored objects.
type FilePresigner interface {
	PresignDownload(ctx context.Context, objectKey, fileName string, ttl time.Duration) (string, error)
}

type FileDownload struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SupportingFileUsecase interface {
	DownloadLink(ctx context.Context, ownerID, fileID, secret string) (*FileDownload, error)
}
