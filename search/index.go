package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
)

// Index is the full-text index over message text. It only stores message ids;
// authorization and document loading stay in the service layer.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// IndexMessage makes a stored message findable by its text.
func (i *Index) IndexMessage(id, text string) error {
	doc := bluge.NewDocument(id).
		AddField(bluge.NewTextField("text", text))
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the ids of the top matching messages for the given terms.
func (i *Index) Search(ctx context.Context, terms string, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Closing index reader failed", "err", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("text")
	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []string
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
