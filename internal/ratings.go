package internal

import (
	"context"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// One evaluation per (project, judge). Duplicates are rejected outright;
// revision goes through UpdateRating, never an upsert here.
func CreateRating(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProjectID int    `json:"projectId"`
			JudgeID   int    `json:"judgeId"`
			EventID   *int   `json:"eventId"`
			Scores    Scores `json:"scores"`
			Feedback  string `json:"feedback"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}

		ctx := context.Background()

		var projectExists bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM projects WHERE id=$1)", req.ProjectID,
		).Scan(&projectExists)
		if !projectExists {
			c.JSON(404, gin.H{"error": "Project not found"})
			return
		}

		if req.EventID != nil {
			var eventExists bool
			_ = db.QueryRow(ctx,
				"SELECT EXISTS(SELECT 1 FROM events WHERE id=$1)", *req.EventID,
			).Scan(&eventExists)
			if !eventExists {
				c.JSON(404, gin.H{"error": "Event not found"})
				return
			}

			// only enforced when the event names an explicit judge panel
			var judgeCount int
			_ = db.QueryRow(ctx,
				"SELECT count(*) FROM event_judges WHERE event_id=$1", *req.EventID,
			).Scan(&judgeCount)
			if judgeCount > 0 {
				var assigned bool
				_ = db.QueryRow(ctx,
					"SELECT EXISTS(SELECT 1 FROM event_judges WHERE event_id=$1 AND user_id=$2)",
					*req.EventID, req.JudgeID,
				).Scan(&assigned)
				if !assigned {
					c.JSON(403, gin.H{"error": "Not assigned as judge for this event"})
					return
				}
			}
		}

		var rated bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM ratings WHERE project_id=$1 AND judge_id=$2)",
			req.ProjectID, req.JudgeID,
		).Scan(&rated)
		if rated {
			c.JSON(400, gin.H{"error": "Already rated this project"})
			return
		}

		if !validateScores(req.Scores) {
			c.JSON(400, gin.H{"error": "Ratings must be between 1 and 10"})
			return
		}

		var id int
		err := db.QueryRow(ctx,
			`INSERT INTO ratings(project_id, judge_id, event_id, innovation, technical,
			                     feasibility, presentation, impact, overall, feedback)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
			req.ProjectID, req.JudgeID, req.EventID,
			req.Scores.Innovation, req.Scores.Technical, req.Scores.Feasibility,
			req.Scores.Presentation, req.Scores.Impact, overallScore(req.Scores), req.Feedback,
		).Scan(&id)
		if err != nil {
			// unique constraint on (project_id, judge_id) backs up the check above
			if isUniqueViolation(err) {
				c.JSON(400, gin.H{"error": "Already rated this project"})
				return
			}
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		RatingsTotal.Inc()
		logAction(db, &req.JudgeID, "rate_project", "project_id="+strconv.Itoa(req.ProjectID))
		c.JSON(200, gin.H{"id": id})
	}
}

func UpdateRating(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		var req struct {
			Scores   Scores `json:"scores"`
			Feedback string `json:"feedback"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}
		if !validateScores(req.Scores) {
			c.JSON(400, gin.H{"error": "Ratings must be between 1 and 10"})
			return
		}

		tag, err := db.Exec(context.Background(),
			`UPDATE ratings
			 SET innovation=$1, technical=$2, feasibility=$3, presentation=$4,
			     impact=$5, overall=$6, feedback=$7, updated_at=now()
			 WHERE id=$8`,
			req.Scores.Innovation, req.Scores.Technical, req.Scores.Feasibility,
			req.Scores.Presentation, req.Scores.Impact, overallScore(req.Scores),
			req.Feedback, id,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(404, gin.H{"error": "Rating not found"})
			return
		}
		c.JSON(200, gin.H{"success": true})
	}
}

func ListRatings(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ratings, err := queryRatings(context.Background(), db, ratingSelect())
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, ratings)
	}
}

func RatingsForProject(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, _ := strconv.Atoi(c.Param("projectId"))
		ratings, err := queryRatings(context.Background(), db,
			ratingSelect().Where(sq.Eq{"project_id": projectID}))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, ratings)
	}
}

func ratingSelect() sq.SelectBuilder {
	return psql.Select("id", "project_id", "judge_id", "event_id",
		"innovation", "technical", "feasibility", "presentation", "impact",
		"overall", "feedback", "created_at", "updated_at").
		From("ratings").OrderBy("created_at DESC")
}

func queryRatings(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) ([]Rating, error) {
	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Rating{}
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.JudgeID, &r.EventID,
			&r.Scores.Innovation, &r.Scores.Technical, &r.Scores.Feasibility,
			&r.Scores.Presentation, &r.Scores.Impact, &r.Overall, &r.Feedback,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
