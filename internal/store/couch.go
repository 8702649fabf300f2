package store

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"

	"pinboard/internal/canvas"
)

const (
	boardPrefix  = "board:"
	notePrefix   = "note:"
	activeDocID  = "meta:active"
	docTypeBoard = "board"
	docTypeNote  = "note"
	docTypeMeta  = "meta"
)

type boardDoc struct {
	ID   string `json:"_id"`
	Rev  string `json:"_rev,omitempty"`
	Type string `json:"type"`
	canvas.Board
}

type noteDoc struct {
	ID   string `json:"_id"`
	Rev  string `json:"_rev,omitempty"`
	Type string `json:"type"`
	canvas.Note
}

type activeDoc struct {
	ID      string `json:"_id"`
	Rev     string `json:"_rev,omitempty"`
	Type    string `json:"type"`
	BoardID string `json:"board_id"`
}

// Couch stores each board and note as its own CouchDB document, so a batch
// only touches the entities that changed.
type Couch struct {
	client *kivik.Client
	db     *kivik.DB
	dbName string
}

// NewCouch connects to the server at url and creates dbName if missing.
func NewCouch(ctx context.Context, url, dbName string) (*Couch, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}
	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", dbName, err)
		}
	}
	return &Couch{client: client, db: client.DB(dbName), dbName: dbName}, nil
}

func (c *Couch) Close() error {
	return c.client.Close()
}

func (c *Couch) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Version: SnapshotVersion}

	rows := c.db.AllDocs(ctx, kivik.Param("include_docs", true))
	defer rows.Close()
	for rows.Next() {
		id, err := rows.ID()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to read document id: %w", err)
		}
		switch {
		case strings.HasPrefix(id, boardPrefix):
			var doc boardDoc
			if err := rows.ScanDoc(&doc); err != nil {
				return Snapshot{}, fmt.Errorf("failed to decode %s: %w", id, err)
			}
			snap.Boards = append(snap.Boards, doc.Board)
		case strings.HasPrefix(id, notePrefix):
			var doc noteDoc
			if err := rows.ScanDoc(&doc); err != nil {
				return Snapshot{}, fmt.Errorf("failed to decode %s: %w", id, err)
			}
			snap.Notes = append(snap.Notes, doc.Note)
		case id == activeDocID:
			var doc activeDoc
			if err := rows.ScanDoc(&doc); err != nil {
				return Snapshot{}, fmt.Errorf("failed to decode %s: %w", id, err)
			}
			snap.ActiveBoard = doc.BoardID
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to list documents: %w", err)
	}
	sortBoards(snap.Boards)
	return snap, nil
}

// Apply writes the batch one document at a time. A failure stops the batch;
// the caller retries the whole batch, and puts are idempotent.
func (c *Couch) Apply(ctx context.Context, muts []canvas.Mutation) error {
	for _, m := range muts {
		id, doc := couchDoc(m)
		var err error
		if doc == nil {
			err = c.delete(ctx, id)
		} else {
			err = c.put(ctx, id, doc)
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", m.Kind, id, err)
		}
	}
	return nil
}

func (c *Couch) put(ctx context.Context, id string, doc revSetter) error {
	rev, err := c.rev(ctx, id)
	if err != nil {
		return err
	}
	doc.setRev(rev)
	if _, err := c.db.Put(ctx, id, doc); err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}

func (c *Couch) delete(ctx context.Context, id string) error {
	rev, err := c.rev(ctx, id)
	if err != nil || rev == "" {
		return err
	}
	if _, err := c.db.Delete(ctx, id, rev); err != nil && kivik.HTTPStatus(err) != http.StatusNotFound {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// rev returns the current revision of id, or "" when it does not exist.
func (c *Couch) rev(ctx context.Context, id string) (string, error) {
	rev, err := c.db.GetRev(ctx, id)
	if kivik.HTTPStatus(err) == http.StatusNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch revision: %w", err)
	}
	return rev, nil
}

type revSetter interface {
	setRev(rev string)
}

func (d *boardDoc) setRev(rev string)  { d.Rev = rev }
func (d *noteDoc) setRev(rev string)   { d.Rev = rev }
func (d *activeDoc) setRev(rev string) { d.Rev = rev }

// couchDoc maps a mutation to its document id and body. A nil body means delete.
func couchDoc(m canvas.Mutation) (string, revSetter) {
	switch m.Kind {
	case canvas.NoteSaved:
		return notePrefix + m.ID, &noteDoc{ID: notePrefix + m.ID, Type: docTypeNote, Note: m.Note}
	case canvas.NoteDeleted:
		return notePrefix + m.ID, nil
	case canvas.BoardSaved, canvas.ViewportChanged:
		return boardPrefix + m.ID, &boardDoc{ID: boardPrefix + m.ID, Type: docTypeBoard, Board: m.Board}
	case canvas.BoardDeleted:
		return boardPrefix + m.ID, nil
	default:
		return activeDocID, &activeDoc{ID: activeDocID, Type: docTypeMeta, BoardID: m.ID}
	}
}

// sortBoards orders boards by creation time. AllDocs returns them by id,
// which for uuids is random.
func sortBoards(boards []canvas.Board) {
	slices.SortStableFunc(boards, func(a, b canvas.Board) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
