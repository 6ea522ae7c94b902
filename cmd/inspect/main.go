package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// inspect dumps the user and message documents of a sup-api database in a
// readable table. Badger is opened read-only so it can run next to a live
// server.
func main() {
	dbPath := flag.String("db", "./sup-data", "Path to the badger database")
	prefix := flag.String("prefix", "user:id:", "Key prefix to scan (user:id: or msg:id:)")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "ID", "Detail", "Created"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				table.Append(toRow(key, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
}

func toRow(key string, value []byte) []string {
	var doc map[string]any
	if err := json.Unmarshal(value, &doc); err != nil {
		// Index entries hold plain ids, not JSON documents.
		return []string{key, string(value), "", ""}
	}

	id, _ := doc["id"].(string)
	detail := ""
	if username, ok := doc["username"].(string); ok {
		detail = "user " + username
	}
	if text, ok := doc["text"].(string); ok {
		detail = fmt.Sprintf("%v -> %v: %s", doc["from"], doc["to"], text)
	}

	created := ""
	switch at := doc["created_at"].(type) {
	case float64:
		created = time.Unix(int64(at), 0).UTC().Format(time.RFC822)
	}
	if at, ok := doc["at"].(float64); ok {
		created = time.Unix(0, int64(at)).UTC().Format(time.RFC822)
	}

	return []string{key, id, detail, created}
}
