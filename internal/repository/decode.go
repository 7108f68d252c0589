package repository

import (
	"go.uber.org/zap"

	"constructhub/pkg/docstore"
)

// decodeAll decodes every document, skipping (and logging) the ones that do
// not fit T. setID copies the document id into the decoded value.
func decodeAll[T any](logger *zap.Logger, docs []docstore.Document, setID func(*T, string)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.Decode(&v); err != nil {
			logger.Warn("Skipping malformed document",
				zap.String("collection", doc.Collection),
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		setID(&v, doc.ID)
		out = append(out, v)
	}
	return out
}
