// Package repository implements bkmr's persistent catalog over SQLite +
// FTS5: CRUD, tag-CTE aggregation, and a two-phase search (FTS for the
// text term, in-memory filtering for everything else). The connection-pool
// setup is reused unchanged from pkg/sqliteutil, which already enforces a
// single-writer model.
package repository

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/sqliteutil"
)

// Repository is the SQLite-backed bookmark catalog.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog at path and runs pending
// migrations.
func Open(ctx context.Context, path string) (*Repository, error) {
	db, err := sqliteutil.OpenDB(path)
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.open", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.migrate", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

const selectColumns = `id, URL, metadata, desc, tags, access_count, created_ts, last_update_ts,
	embedding, content_hash, embeddable, file_path, file_mtime, file_hash`

func scanBookmark(row scanner) (*bookmark.Bookmark, error) {
	var b bookmark.Bookmark
	var tagsCSV string
	var createdTS sql.NullTime
	var updatedTS time.Time
	var embedding []byte
	var contentHash []byte
	var embeddableInt int64
	var filePath sql.NullString
	var fileMTime sql.NullInt64
	var fileHash sql.NullString

	if err := row.Scan(
		&b.ID, &b.URL, &b.Title, &b.Description, &tagsCSV, &b.AccessCount,
		&createdTS, &updatedTS, &embedding, &contentHash, &embeddableInt,
		&filePath, &fileMTime, &fileHash,
	); err != nil {
		return nil, err
	}

	b.Tags = bookmark.ParseTagCSV(tagsCSV)
	if createdTS.Valid {
		t := createdTS.Time
		b.CreatedAt = &t
	}
	b.UpdatedAt = updatedTS
	b.Embeddable = embeddableInt != 0
	if len(embedding) > 0 {
		b.Embedding = decodeEmbedding(embedding)
	}
	if len(contentHash) > 0 {
		b.ContentHash = contentHash
	}
	if filePath.Valid {
		b.Provenance = &bookmark.FileProvenance{
			Path:  filePath.String,
			MTime: fileMTime.Int64,
			Hash:  fileHash.String,
		}
	}
	return &b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// GetByID fetches a single bookmark by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*bookmark.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE id = ?`, id)
	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, bkmrerr.ErrBookmarkNotFound
	}
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.get_by_id", err)
	}
	return b, nil
}

// GetByURL fetches a single bookmark by its unique URL. Single quotes are
// escaped by using a parameterized query rather than string interpolation.
func (r *Repository) GetByURL(ctx context.Context, url string) (*bookmark.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE URL = ?`, url)
	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, bkmrerr.ErrBookmarkNotFound
	}
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.get_by_url", err)
	}
	return b, nil
}

// GetByName fetches a single bookmark by its title, used by the file
// importer's duplicate-name check. found is false, not an
// error, when no bookmark has that title.
func (r *Repository) GetByName(ctx context.Context, name string) (*bookmark.Bookmark, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE metadata = ?`, name)
	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, bkmrerr.New(bkmrerr.KindRepository, "repository.get_by_name", err)
	}
	return b, true, nil
}

// GetImportedFromPaths returns all _imported_ bookmarks whose provenance
// path lies under one of basePaths, used by --delete-missing.
func (r *Repository) GetImportedFromPaths(ctx context.Context, basePaths []string) ([]*bookmark.Bookmark, error) {
	all, err := r.queryAll(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE file_path IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, b := range all {
		if b.Provenance == nil {
			continue
		}
		for _, base := range basePaths {
			if strings.HasPrefix(b.Provenance.Path, base) {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

// Add transactionally inserts b and stamps its assigned id back onto it.
func (r *Repository) Add(ctx context.Context, b *bookmark.Bookmark) error {
	if _, err := r.GetByURL(ctx, b.URL); err == nil {
		return bkmrerr.ErrBookmarkExists
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.add", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO bookmarks
		(URL, metadata, desc, tags, access_count, created_ts, last_update_ts,
		 embedding, content_hash, embeddable, file_path, file_mtime, file_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.URL, b.Title, b.Description, b.Tags.Format(), b.AccessCount,
		b.CreatedAt, b.UpdatedAt, encodeEmbedding(b.Embedding), nullBytes(b.ContentHash),
		boolToInt(b.Embeddable), provenancePath(b), provenanceMTime(b), provenanceHash(b),
	)
	if err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.add", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.add", err)
	}
	if err := tx.Commit(); err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.add", err)
	}
	b.ID = id
	return nil
}

// Update persists all non-id columns, including explicit NULL semantics
// for the nullable embedding/content-hash (writing nil clears the column).
func (r *Repository) Update(ctx context.Context, b *bookmark.Bookmark) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookmarks SET
		URL = ?, metadata = ?, desc = ?, tags = ?, access_count = ?,
		last_update_ts = ?, embedding = ?, content_hash = ?, embeddable = ?,
		file_path = ?, file_mtime = ?, file_hash = ?
		WHERE id = ?`,
		b.URL, b.Title, b.Description, b.Tags.Format(), b.AccessCount,
		b.UpdatedAt, encodeEmbedding(b.Embedding), nullBytes(b.ContentHash),
		boolToInt(b.Embeddable), provenancePath(b), provenanceMTime(b), provenanceHash(b),
		b.ID,
	)
	if err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.update", err)
	}
	return nil
}

// Delete physically removes the row. The id sequence is not compacted
// (decided in DESIGN.md).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.delete", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return bkmrerr.ErrBookmarkNotFound
	}
	return nil
}

// RecordAccess increments the access counter and refreshes updated-at.
func (r *Repository) RecordAccess(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookmarks SET access_count = access_count + 1, last_update_ts = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return bkmrerr.New(bkmrerr.KindRepository, "repository.record_access", err)
	}
	return nil
}

// GetAll returns every bookmark.
func (r *Repository) GetAll(ctx context.Context) ([]*bookmark.Bookmark, error) {
	return r.queryAll(ctx, `SELECT `+selectColumns+` FROM bookmarks ORDER BY id`)
}

// GetRandom returns n random bookmarks (SQLite ORDER BY RANDOM() LIMIT n).
func (r *Repository) GetRandom(ctx context.Context, n int) ([]*bookmark.Bookmark, error) {
	return r.queryAll(ctx, fmt.Sprintf(`SELECT %s FROM bookmarks ORDER BY RANDOM() LIMIT %d`, selectColumns, n))
}

// GetWithoutEmbeddings returns embeddable bookmarks that have no stored
// embedding yet.
func (r *Repository) GetWithoutEmbeddings(ctx context.Context) ([]*bookmark.Bookmark, error) {
	return r.queryAll(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE embeddable = 1 AND embedding IS NULL`)
}

// GetEmbeddableForForcedBackfill returns every embeddable bookmark,
// regardless of whether it already has an embedding, excluding those
// tagged _imported_ (used by forced backfill, which recomputes
// everything eligible rather than only the missing ones).
func (r *Repository) GetEmbeddableForForcedBackfill(ctx context.Context) ([]*bookmark.Bookmark, error) {
	all, err := r.queryAll(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE embeddable = 1`)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, b := range all {
		if !b.Tags.IsImported() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Repository) queryAll(ctx context.Context, query string, args ...any) ([]*bookmark.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.query", err)
	}
	defer rows.Close()

	var out []*bookmark.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.query", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// FTSIds runs the FTS5 query and returns matching bookmark ids ranked by
// SQLite's bm25-derived rank.
func (r *Repository) FTSIds(ctx context.Context, term string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rowid FROM bookmarks_fts WHERE bookmarks_fts MATCH ? ORDER BY rank`, term)
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.fts", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByIDsOrdered fetches bookmarks for the given ids, preserving the
// input order (needed to keep FTS rank order when no explicit sort is
// requested).
func (r *Repository) GetByIDsOrdered(ctx context.Context, ids []int64) ([]*bookmark.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM bookmarks WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.get_by_ids", err)
	}
	defer rows.Close()

	byID := map[int64]*bookmark.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		byID[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*bookmark.Bookmark, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// TagCount pairs a tag with the number of bookmarks carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// GetAllTags splits the comma-delimited tag column into rows, groups, and
// counts, via a recursive CTE.
func (r *Repository) GetAllTags(ctx context.Context) ([]TagCount, error) {
	return r.splitTagsQuery(ctx, `SELECT tags FROM bookmarks`)
}

// GetRelatedTags returns tags that co-occur with tag, with counts,
// filtering first via LIKE '%,tag,%' before splitting.
func (r *Repository) GetRelatedTags(ctx context.Context, tag string) ([]TagCount, error) {
	pattern := "%," + tag + ",%"
	return r.splitTagsQuery(ctx, `SELECT tags FROM bookmarks WHERE tags LIKE ?`, pattern)
}

const tagSplitCTE = `
WITH RECURSIVE split(tags_rest, tag) AS (
	SELECT substr(t.tags, 2) AS tags_rest, '' AS tag
	FROM (%s) t
	UNION ALL
	SELECT
		substr(tags_rest, instr(tags_rest, ',') + 1),
		substr(tags_rest, 1, instr(tags_rest, ',') - 1)
	FROM split
	WHERE tags_rest <> ''
)
SELECT tag, COUNT(*) as cnt FROM split WHERE tag <> '' GROUP BY tag ORDER BY tag
`

func (r *Repository) splitTagsQuery(ctx context.Context, innerQuery string, args ...any) ([]TagCount, error) {
	query := fmt.Sprintf(tagSplitCTE, innerQuery)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, bkmrerr.New(bkmrerr.KindRepository, "repository.tags", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// --- embedding blob codec ---

// encodeEmbedding serializes a []float32 to the little-endian,
// count-prefixed blob format. A nil/empty vector
// encodes to a nil blob (stored as SQL NULL).
func encodeEmbedding(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, 4+4*len(v))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(v)))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4+4*i:8+4*i], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	if len(buf) < 4 {
		return nil
	}
	count := binary.LittleEndian.Uint32(buf[0:4])
	out := make([]float32, 0, count)
	for i := 0; i < int(count); i++ {
		off := 4 + 4*i
		if off+4 > len(buf) {
			break
		}
		bits := binary.LittleEndian.Uint32(buf[off : off+4])
		out = append(out, math.Float32frombits(bits))
	}
	return out
}

// CanonicalEmbeddingSource builds the text an embedder consumes, per
// ",<visible tags CSV>,<title> -- <description>,<visible tags CSV>,".
func CanonicalEmbeddingSource(b *bookmark.Bookmark) string {
	visible := b.Tags.Visible().Format()
	return visible + b.Title + " -- " + b.Description + visible
}

// ContentHashOf returns the MD5 of the canonical embedding source text.
func ContentHashOf(b *bookmark.Bookmark) []byte {
	sum := md5.Sum([]byte(CanonicalEmbeddingSource(b)))
	return sum[:]
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func provenancePath(b *bookmark.Bookmark) any {
	if b.Provenance == nil {
		return nil
	}
	return b.Provenance.Path
}

func provenanceMTime(b *bookmark.Bookmark) any {
	if b.Provenance == nil {
		return nil
	}
	return b.Provenance.MTime
}

func provenanceHash(b *bookmark.Bookmark) any {
	if b.Provenance == nil {
		return nil
	}
	return b.Provenance.Hash
}
