package internal

import (
	"context"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

var validPriorities = map[string]bool{"low": true, "normal": true, "high": true}

func CreateAnnouncement(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			EventID  *int   `json:"eventId"`
			Priority string `json:"priority"`
			Audience string `json:"audience"`
			AuthorID int    `json:"authorId"`
		}
		if err := c.BindJSON(&req); err != nil || req.Title == "" {
			c.JSON(400, gin.H{"error": "title is required"})
			return
		}
		if req.Priority == "" {
			req.Priority = "normal"
		}
		if !validPriorities[req.Priority] {
			c.JSON(400, gin.H{"error": "priority must be low, normal or high"})
			return
		}
		if req.Audience == "" {
			req.Audience = "all"
		}

		var id int
		err := db.QueryRow(context.Background(),
			`INSERT INTO announcements(title, content, event_id, priority, audience, author_id)
			 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			req.Title, req.Content, req.EventID, req.Priority, req.Audience, req.AuthorID,
		).Scan(&id)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"id": id})
	}
}

func announcementSelect() sq.SelectBuilder {
	return psql.Select("id", "title", "content", "event_id", "priority", "audience",
		"author_id", "created_at").
		From("announcements").OrderBy("created_at DESC")
}

func ListAnnouncements(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := announcementSelect()
		if v := c.Query("eventId"); v != "" {
			eventID, _ := strconv.Atoi(v)
			q = q.Where(sq.Eq{"event_id": eventID})
		}
		out, err := queryAnnouncements(context.Background(), db, q)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, out)
	}
}

// AnnouncementsForEvent returns event-scoped plus global announcements.
func AnnouncementsForEvent(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		q := announcementSelect().Where(sq.Or{
			sq.Eq{"event_id": eventID},
			sq.Eq{"event_id": nil},
		})
		out, err := queryAnnouncements(context.Background(), db, q)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, out)
	}
}

func queryAnnouncements(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) ([]Announcement, error) {
	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Announcement{}
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.EventID, &a.Priority,
			&a.Audience, &a.AuthorID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func CreateQuestion(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title    string `json:"title"`
			Question string `json:"question"`
			AskedBy  int    `json:"askedBy"`
			EventID  *int   `json:"eventId"`
		}
		if err := c.BindJSON(&req); err != nil || req.Question == "" {
			c.JSON(400, gin.H{"error": "question is required"})
			return
		}

		var id int
		err := db.QueryRow(context.Background(),
			"INSERT INTO questions(title, question, asked_by, event_id) VALUES ($1,$2,$3,$4) RETURNING id",
			req.Title, req.Question, req.AskedBy, req.EventID,
		).Scan(&id)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"id": id})
	}
}

func questionSelect() sq.SelectBuilder {
	return psql.Select("id", "title", "question", "asked_by", "event_id",
		"answer", "answered_by", "answered_at", "created_at").
		From("questions").OrderBy("created_at DESC")
}

func ListQuestions(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := questionSelect()
		if v := c.Query("eventId"); v != "" {
			eventID, _ := strconv.Atoi(v)
			q = q.Where(sq.Eq{"event_id": eventID})
		}
		out, err := queryQuestions(context.Background(), db, q)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, out)
	}
}

func QuestionsForEvent(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		q := questionSelect().Where(sq.Or{
			sq.Eq{"event_id": eventID},
			sq.Eq{"event_id": nil},
		})
		out, err := queryQuestions(context.Background(), db, q)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, out)
	}
}

func queryQuestions(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) ([]Question, error) {
	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var qu Question
		if err := rows.Scan(&qu.ID, &qu.Title, &qu.Question, &qu.AskedBy, &qu.EventID,
			&qu.Answer, &qu.AnsweredBy, &qu.AnsweredAt, &qu.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, qu)
	}
	return out, rows.Err()
}

func AnswerQuestion(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		questionID, _ := strconv.Atoi(c.Param("questionId"))
		var req struct {
			Answer     string `json:"answer"`
			AnsweredBy int    `json:"answeredBy"`
		}
		if err := c.BindJSON(&req); err != nil || req.Answer == "" {
			c.JSON(400, gin.H{"error": "answer is required"})
			return
		}

		ctx := context.Background()

		var answered bool
		err := db.QueryRow(ctx,
			"SELECT answer IS NOT NULL FROM questions WHERE id=$1", questionID,
		).Scan(&answered)
		if err != nil {
			c.JSON(404, gin.H{"error": "Question not found"})
			return
		}
		if answered {
			c.JSON(400, gin.H{"error": "Question already answered"})
			return
		}

		// answered is terminal: the predicate keeps a concurrent second
		// answer from overwriting the first
		tag, err := db.Exec(ctx,
			"UPDATE questions SET answer=$1, answered_by=$2, answered_at=now() WHERE id=$3 AND answer IS NULL",
			req.Answer, req.AnsweredBy, questionID,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(400, gin.H{"error": "Question already answered"})
			return
		}
		c.JSON(200, gin.H{"success": true})
	}
}
