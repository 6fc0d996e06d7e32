package interfaces

import "time"

// Document represents a local course artifact with parsed metadata and
// content. The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	Title        string
	Meta         SyncMeta
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
}

// SyncMeta models the sync-facing frontmatter table declared on course
// artifacts. Unknown keys are preserved in Custom so handlers can forward
// provider-specific settings without the core enumerating them.
type SyncMeta struct {
	Type              string         `yaml:"type" json:"type"`
	Title             string         `yaml:"title" json:"title"`
	Published         bool           `yaml:"published" json:"published"`
	Indent            int            `yaml:"indent" json:"indent"`
	Points            float64        `yaml:"points" json:"points"`
	DueAt             string         `yaml:"due_at" json:"due_at"`
	UnlockAt          string         `yaml:"unlock_at" json:"unlock_at"`
	LockAt            string         `yaml:"lock_at" json:"lock_at"`
	SubmissionTypes   []string       `yaml:"submission_types" json:"submission_types"`
	AllowedExtensions []string       `yaml:"allowed_extensions" json:"allowed_extensions"`
	Custom            map[string]any `yaml:",inline" json:"custom,omitempty"`
}
