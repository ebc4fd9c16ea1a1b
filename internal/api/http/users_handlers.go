package http

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"` // plaintext on upsert only, never stored
}

// POST /users/bulk — JSON array of users; roster import for faculty/admin.
func BulkUpsertUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []userRow
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		ctx := r.Context()

		upserted := 0
		for _, row := range rows {
			if row.Username == "" {
				continue
			}
			if row.Role == "" {
				row.Role = "student"
			}
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			pass := row.Password
			if pass == "" {
				pass = row.Username // dev default, forced change is out of band
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "hash password")
				return
			}
			_, err = db.ExecContext(ctx, `INSERT INTO users (id,username,role,pass_hash)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (username) DO UPDATE SET role=EXCLUDED.role, pass_hash=EXCLUDED.pass_hash`,
				row.ID, row.Username, row.Role, string(hash))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			upserted++
		}
		writeJSON(w, http.StatusOK, map[string]int{"upserted": upserted})
	}
}

// GET /users
func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.QueryContext(r.Context(), `SELECT id, username, role FROM users ORDER BY username`)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()
		out := []userRow{}
		for rows.Next() {
			var u userRow
			if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, u)
		}
		if err := rows.Err(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
