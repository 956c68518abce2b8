package internal

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	pb "otr-lab/proto/storage"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

const defaultPrefix = "destruction:"

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Namespace string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// NewDebugServer serves a read only view of the BadgerDB keys under endpoint,
// filtered by the "prefix" query parameter.
func NewDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultPrefix
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		err := db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	return &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// DefaultMapper understands message records and destruction entries, any
// other key is shown raw.
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Namespace: "default",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch {
	case parts[0] == "destruction" && len(parts) == 4:
		row.Type = "DESTRUCTION"
		row.Namespace = parts[2]
		if tsNano, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			row.Timestamp = time.Unix(0, tsNano).Format(time.DateTime)
		}
		row.EntityID = short(parts[3])
	case parts[0] == "message" && len(parts) == 3:
		row.Type = "MESSAGE"
		row.Namespace = parts[1]
		row.EntityID = short(parts[2])
		record := &pb.MessageRecord{}
		if err := record.Unmarshal(val); err != nil {
			row.Detail = "Invalid record: " + err.Error()
			break
		}
		if record.ServerTimestamp != 0 {
			row.Timestamp = time.Unix(0, record.ServerTimestamp).Format(time.DateTime)
		}
		row.Detail = fmt.Sprintf("fragments=%d obfuscated=%t deleted=%t sent=%t",
			len(record.Fragments), record.IsObfuscated, record.Deleted, record.IsSent)
	case parts[0] == "client" && len(parts) == 3:
		row.Type = "FAILED_SESSION"
		row.EntityID = parts[2]
	case parts[0] == "user" && len(parts) == 4 && parts[2] == "client":
		row.Type = "USER_CLIENT"
		row.Namespace = parts[1]
		row.EntityID = parts[3]
	}
	return row
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
