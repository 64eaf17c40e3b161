package internal

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func GetUser(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var u User
		err := db.QueryRow(context.Background(),
			"SELECT id, name, email, role, created_at FROM users WHERE email=$1",
			c.Param("email"),
		).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, u)
	}
}

func ListUsers(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			"SELECT id, name, email, role, created_at FROM users ORDER BY id ASC")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		out := []User{}
		for rows.Next() {
			var u User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, u)
		}
		c.JSON(200, out)
	}
}
