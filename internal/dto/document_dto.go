package dto

type ImportAllRequest struct {
	Path     string `json:"path" validate:"required"`
	Language string `json:"language" validate:"required"`
}

type ImportFileRequest struct {
	Path             string `json:"path" validate:"required"`
	Language         string `json:"language" validate:"required"`
	RootPath         string `json:"root_path"`
	TranslateVariant bool   `json:"translate_variant"`
}

// ImportResultResponse aggregates a batch import. Errors holds one
// "{path}: {message}" entry per failed file; failures never abort the batch.
type ImportResultResponse struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type ImportFileResponse struct {
	FilePath string `json:"file_path"`
	Status   string `json:"status"` // added | updated | skipped
}

type DeleteDocumentResponse struct {
	FilePath string `json:"file_path"`
	Deleted  bool   `json:"deleted"`
}
