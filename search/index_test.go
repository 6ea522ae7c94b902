package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Index_And_Search(t *testing.T) {
	req := require.New(t)
	index, err := Open(t.TempDir(), slog.Default())
	req.NoError(err)
	defer index.Close()

	req.NoError(index.IndexMessage("msg-1", "deploy the new build at noon"))
	req.NoError(index.IndexMessage("msg-2", "lunch at the corner place"))
	req.NoError(index.IndexMessage("msg-3", "deploy rollback instructions"))

	ids, err := index.Search(context.Background(), "deploy", 10)
	req.NoError(err)
	req.ElementsMatch([]string{"msg-1", "msg-3"}, ids)

	ids, err = index.Search(context.Background(), "nothing-matches-this", 10)
	req.NoError(err)
	req.Empty(ids)
}

func Test_Index_Update_Replaces_Document(t *testing.T) {
	req := require.New(t)
	index, err := Open(t.TempDir(), slog.Default())
	req.NoError(err)
	defer index.Close()

	req.NoError(index.IndexMessage("msg-1", "first version"))
	req.NoError(index.IndexMessage("msg-1", "second version"))

	ids, err := index.Search(context.Background(), "second", 10)
	req.NoError(err)
	req.Equal([]string{"msg-1"}, ids)

	ids, err = index.Search(context.Background(), "first", 10)
	req.NoError(err)
	req.Empty(ids)
}
