package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation reports a foreign key violation (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere (use with ESCAPE '\').
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// prefixPattern builds an ILIKE pattern matching s literally at the start.
func prefixPattern(s string) string {
	return likeEscaper.Replace(s) + "%"
}

// validID reports whether id can be compared with a uuid column; anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullableID maps an empty id to NULL.
func nullableID(id *string) any {
	if id == nil || *id == "" {
		return nil
	}
	return *id
}
