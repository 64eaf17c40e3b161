package internal

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func logAction(db *pgxpool.Pool, actorID *int, action, details string) {
	_, _ = db.Exec(context.Background(),
		"INSERT INTO logs(actor_id, action, details) VALUES ($1,$2,$3)",
		actorID, action, details,
	)
}

func Logs(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			`SELECT l.id,
			        to_char(l.created_at, 'YYYY-MM-DD HH24:MI:SS') AS created_at,
			        COALESCE(u.name,'(deleted)') AS actor,
			        l.action,
			        l.details
			 FROM logs l
			 LEFT JOIN users u ON u.id=l.actor_id
			 ORDER BY l.id DESC LIMIT 200`)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		type row struct {
			ID        int64  `json:"id"`
			CreatedAt string `json:"created_at"`
			Actor     string `json:"actor"`
			Action    string `json:"action"`
			Details   string `json:"details"`
		}

		out := []row{}
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Actor, &r.Action, &r.Details); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, r)
		}

		c.JSON(200, out)
	}
}

func Health(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		database := "Connected"
		if err := db.Ping(ctx); err != nil {
			database = "Disconnected"
		}
		c.JSON(200, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  database,
		})
	}
}
