package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string     `json:"documentId"`
	FileName   string     `json:"fileName"`
	MimeType   string     `json:"mimeType"`
	SizeBytes  int64      `json:"sizeBytes"`
	TextStatus TextStatus `json:"textStatus"`
	TextError  string     `json:"textError,omitempty"`
	PageCount  int        `json:"pageCount,omitempty"`
	UploadedAt time.Time  `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		TextStatus: doc.TextStatus,
		TextError:  doc.TextError,
		PageCount:  doc.PageCount,
		UploadedAt: doc.CreatedAt,
	}
}

// TextResponse carries a document's extracted text.
type TextResponse struct {
	DocumentID string     `json:"documentId"`
	TextStatus TextStatus `json:"textStatus"`
	Text       string     `json:"text"`
}
