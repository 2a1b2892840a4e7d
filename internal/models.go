package internal

// SnapshotParams are the inputs for saving a per-message snapshot
type SnapshotParams struct {
	Identifier string      `json:"identifier,omitempty"`
	MessageID  string      `json:"messageId,omitempty"`
	ChatFile   string      `json:"chatFile"`
	Payload    interface{} `json:"payload"`
}

// SaveSnapshotResult describes a completed message snapshot save
type SaveSnapshotResult struct {
	Identifier    string `json:"identifier"`
	ChatFile      string `json:"chatFile"`
	MessageID     string `json:"messageId,omitempty"`
	StructureID   int64  `json:"structureId"`
	StructureHash string `json:"structureHash"`
	CreatedAt     int64  `json:"createdAt"`
	Replaced      bool   `json:"replaced"`
}

// SnapshotRecord is a fully hydrated message snapshot
type SnapshotRecord struct {
	Identifier string      `json:"identifier"`
	ChatFile   string      `json:"chatFile"`
	MessageID  string      `json:"messageId,omitempty"`
	CreatedAt  int64       `json:"createdAt"`
	Payload    interface{} `json:"payload"`
}

// CleanupResult reports an orphan sweep over the message snapshot bindings
type CleanupResult struct {
	DeletedCount     int64    `json:"deletedCount"`
	TotalScanned     int      `json:"totalScanned"`
	DeletedChatFiles []string `json:"deletedChatFiles"`
}

// GlobalSnapshotParams are the inputs for saving a global snapshot
type GlobalSnapshotParams struct {
	SnapshotID   string      `json:"snapshotId,omitempty"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	SnapshotBody interface{} `json:"snapshotBody"`
	Tags         []string    `json:"tags,omitempty"`
}

// SaveGlobalSnapshotResult describes a completed global snapshot save
type SaveGlobalSnapshotResult struct {
	SnapshotID    string `json:"snapshotId"`
	StructureID   int64  `json:"structureId"`
	StructureHash string `json:"structureHash"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
	Replaced      bool   `json:"replaced"`
}

// GlobalSnapshotRecord is a fully hydrated global snapshot
type GlobalSnapshotRecord struct {
	SnapshotID   string      `json:"snapshotId"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	SnapshotBody interface{} `json:"snapshotBody"`
	Tags         []string    `json:"tags"`
	CreatedAt    int64       `json:"createdAt"`
	UpdatedAt    int64       `json:"updatedAt"`
}

// GlobalSnapshotMetadata is a global snapshot without its body, for listings
type GlobalSnapshotMetadata struct {
	SnapshotID  string   `json:"snapshotId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// ListGlobalSnapshotsOptions filter and paginate a global snapshot listing
type ListGlobalSnapshotsOptions struct {
	Tag    string
	Limit  int
	Offset int
}

// ListGlobalSnapshotsResult is one page of global snapshot metadata plus the
// total count ignoring pagination
type ListGlobalSnapshotsResult struct {
	Snapshots []GlobalSnapshotMetadata `json:"snapshots"`
	Total     int                      `json:"total"`
}

// TemplateParams are the inputs for storing a variable template
type TemplateParams struct {
	CharacterName string      `json:"characterName"`
	Template      interface{} `json:"template"`
}

// TemplateRecord is a stored variable template
type TemplateRecord struct {
	CharacterName string      `json:"characterName"`
	Template      interface{} `json:"template"`
	CreatedAt     int64       `json:"createdAt"`
	UpdatedAt     int64       `json:"updatedAt"`
}
