package internal

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateProject accepts a submission after the eligibility checks pass.
// requireLink is set for the dedicated submission form, which insists on a
// GitHub or demo URL.
func CreateProject(db *pgxpool.Pool, requireLink bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			TeamMembers  []string `json:"teamMembers"`
			SubmittedBy  int      `json:"submittedBy"`
			EventID      *int     `json:"eventId"`
			GithubURL    string   `json:"githubUrl"`
			DemoURL      string   `json:"demoUrl"`
			Technologies []string `json:"technologies"`
			Track        string   `json:"track"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}
		if req.Title == "" || req.SubmittedBy == 0 {
			c.JSON(400, gin.H{"error": "title and submittedBy are required"})
			return
		}
		if requireLink && req.GithubURL == "" && req.DemoURL == "" {
			c.JSON(400, gin.H{"error": "GitHub or demo URL is required"})
			return
		}
		if req.TeamMembers == nil {
			req.TeamMembers = []string{}
		}
		if req.Technologies == nil {
			req.Technologies = []string{}
		}

		ctx := context.Background()

		if req.EventID != nil {
			var status string
			err := db.QueryRow(ctx,
				"SELECT status FROM events WHERE id=$1", *req.EventID,
			).Scan(&status)
			if err == pgx.ErrNoRows {
				c.JSON(404, gin.H{"error": "Event not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": err.Error()})
				return
			}
			if status != StatusActive {
				c.JSON(400, gin.H{"error": "Can only submit to active events"})
				return
			}

			var joined bool
			_ = db.QueryRow(ctx,
				"SELECT EXISTS(SELECT 1 FROM event_participants WHERE event_id=$1 AND user_id=$2)",
				*req.EventID, req.SubmittedBy,
			).Scan(&joined)
			if !joined {
				c.JSON(403, gin.H{"error": "Must join event before submitting"})
				return
			}

			var submitted bool
			_ = db.QueryRow(ctx,
				"SELECT EXISTS(SELECT 1 FROM projects WHERE event_id=$1 AND submitted_by=$2)",
				*req.EventID, req.SubmittedBy,
			).Scan(&submitted)
			if submitted {
				c.JSON(400, gin.H{"error": "Already submitted to this event"})
				return
			}
		}

		var id int
		err := db.QueryRow(ctx,
			`INSERT INTO projects(title, description, team_members, submitted_by, event_id,
			                      github_url, demo_url, technologies, track)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
			req.Title, req.Description, req.TeamMembers, req.SubmittedBy, req.EventID,
			req.GithubURL, req.DemoURL, req.Technologies, req.Track,
		).Scan(&id)
		if err != nil {
			// unique (event_id, submitted_by) backs up the duplicate check
			if isUniqueViolation(err) {
				c.JSON(400, gin.H{"error": "Already submitted to this event"})
				return
			}
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		SubmissionsTotal.Inc()
		logAction(db, &req.SubmittedBy, "submit_project", "project_id="+strconv.Itoa(id))
		c.JSON(200, gin.H{"id": id})
	}
}

func ListProjects(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			`SELECT id, title, description, team_members, submitted_by, event_id,
			        github_url, demo_url, technologies, track, submitted_at, created_at
			 FROM projects ORDER BY created_at DESC`)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		out := []Project{}
		for rows.Next() {
			var p Project
			if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.TeamMembers,
				&p.SubmittedBy, &p.EventID, &p.GithubURL, &p.DemoURL, &p.Technologies,
				&p.Track, &p.SubmittedAt, &p.CreatedAt); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, p)
		}
		c.JSON(200, out)
	}
}
