package internal

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateEvent(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title           string    `json:"title"`
			Description     string    `json:"description"`
			Location        string    `json:"location"`
			StartDate       time.Time `json:"startDate"`
			EndDate         time.Time `json:"endDate"`
			MaxParticipants *int      `json:"maxParticipants"`
			PrizePool       string    `json:"prizePool"`
			Tracks          []string  `json:"tracks"`
			Judges          []int     `json:"judges"`
			OrganizerID     int       `json:"organizerId"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}
		if req.Title == "" || req.StartDate.IsZero() || req.EndDate.IsZero() {
			c.JSON(400, gin.H{"error": "title, startDate and endDate are required"})
			return
		}
		if req.EndDate.Before(req.StartDate) {
			c.JSON(400, gin.H{"error": "endDate must be after startDate"})
			return
		}
		if req.Tracks == nil {
			req.Tracks = []string{}
		}

		status := resolveStatus(time.Now(), req.StartDate, req.EndDate)

		ctx := context.Background()
		var id int
		err := db.QueryRow(ctx,
			`INSERT INTO events(title, description, location, start_date, end_date,
			                    max_participants, prize_pool, status, tracks, organizer_id)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
			req.Title, req.Description, req.Location, req.StartDate, req.EndDate,
			req.MaxParticipants, req.PrizePool, status, req.Tracks, req.OrganizerID,
		).Scan(&id)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		for _, judgeID := range req.Judges {
			_, _ = db.Exec(ctx,
				"INSERT INTO event_judges(event_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING",
				id, judgeID,
			)
		}

		logAction(db, &req.OrganizerID, "create_event", "event_id="+strconv.Itoa(id))
		c.JSON(200, gin.H{"id": id})
	}
}

// reconcileStatuses is the lazy read-triggered status correction: events whose
// window has begun move upcoming->active, events whose window has passed move
// to completed. There is no background job; listing is the only trigger.
func reconcileStatuses(ctx context.Context, db *pgxpool.Pool, now time.Time) error {
	_, err := db.Exec(ctx,
		`UPDATE events SET status=$1
		 WHERE status=$2 AND start_date <= $3 AND end_date >= $3`,
		StatusActive, StatusUpcoming, now,
	)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx,
		`UPDATE events SET status=$1
		 WHERE status IN ($2,$3) AND end_date < $4`,
		StatusCompleted, StatusUpcoming, StatusActive, now,
	)
	return err
}

func ListEvents(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		if err := reconcileStatuses(ctx, db, time.Now()); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		rows, err := db.Query(ctx,
			`SELECT id, title, description, location, start_date, end_date,
			        max_participants, prize_pool, status, tracks, organizer_id, created_at
			 FROM events ORDER BY start_date DESC`)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		events := []Event{}
		index := map[int]int{}
		for rows.Next() {
			var e Event
			if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDate,
				&e.EndDate, &e.MaxParticipants, &e.PrizePool, &e.Status, &e.Tracks,
				&e.OrganizerID, &e.CreatedAt); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			e.Participants = []int{}
			e.Judges = []int{}
			index[e.ID] = len(events)
			events = append(events, e)
		}

		if err := attachMembers(ctx, db, "event_participants", events, index, func(e *Event, id int) {
			e.Participants = append(e.Participants, id)
		}); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if err := attachMembers(ctx, db, "event_judges", events, index, func(e *Event, id int) {
			e.Judges = append(e.Judges, id)
		}); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, events)
	}
}

func attachMembers(ctx context.Context, db *pgxpool.Pool, table string, events []Event, index map[int]int, add func(*Event, int)) error {
	rows, err := db.Query(ctx,
		"SELECT event_id, user_id FROM "+table+" ORDER BY event_id, user_id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, userID int
		if err := rows.Scan(&eventID, &userID); err != nil {
			return err
		}
		if i, ok := index[eventID]; ok {
			add(&events[i], userID)
		}
	}
	return rows.Err()
}

func JoinEvent(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		var req struct {
			UserID int `json:"userId"`
		}
		if err := c.BindJSON(&req); err != nil || req.UserID == 0 {
			c.JSON(400, gin.H{"error": "userId is required"})
			return
		}

		ctx := context.Background()

		var status string
		var maxParticipants *int
		err := db.QueryRow(ctx,
			"SELECT status, max_participants FROM events WHERE id=$1", eventID,
		).Scan(&status, &maxParticipants)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		if status == StatusCompleted {
			c.JSON(400, gin.H{"error": "Cannot join completed event"})
			return
		}

		var count int
		_ = db.QueryRow(ctx,
			"SELECT count(*) FROM event_participants WHERE event_id=$1", eventID,
		).Scan(&count)
		if maxParticipants != nil && count >= *maxParticipants {
			c.JSON(400, gin.H{"error": "Event is full"})
			return
		}

		var joined bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM event_participants WHERE event_id=$1 AND user_id=$2)",
			eventID, req.UserID,
		).Scan(&joined)
		if joined {
			c.JSON(400, gin.H{"error": "Already joined this event"})
			return
		}

		// capacity check folded into the insert so concurrent joins cannot
		// push the participant count past the limit
		tag, err := db.Exec(ctx,
			`INSERT INTO event_participants(event_id, user_id)
			 SELECT $1, $2
			 WHERE $3::int IS NULL
			    OR (SELECT count(*) FROM event_participants WHERE event_id=$1) < $3
			 ON CONFLICT DO NOTHING`,
			eventID, req.UserID, maxParticipants,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(400, gin.H{"error": "Event is full"})
			return
		}

		JoinsTotal.Inc()
		logAction(db, &req.UserID, "join_event", "event_id="+strconv.Itoa(eventID))
		c.JSON(200, gin.H{"success": true, "message": "Successfully joined event"})
	}
}

// rankLeaderboard orders entries by mean rating, tie-broken by review count.
func rankLeaderboard(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		return entries[i].RatingCount > entries[j].RatingCount
	})
}

func Leaderboard(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		ctx := context.Background()

		rows, err := db.Query(ctx,
			`SELECT p.id, p.title, p.description, p.submitted_by, p.track,
			        COALESCE(AVG(r.overall), 0), COUNT(r.id)
			 FROM projects p
			 LEFT JOIN ratings r ON r.project_id = p.id
			 WHERE p.event_id = $1
			 GROUP BY p.id`, eventID)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		entries := []LeaderboardEntry{}
		for rows.Next() {
			var e LeaderboardEntry
			if err := rows.Scan(&e.ProjectID, &e.Title, &e.Description, &e.SubmittedBy,
				&e.Track, &e.AverageScore, &e.RatingCount); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			entries = append(entries, e)
		}

		rankLeaderboard(entries)
		c.JSON(200, entries)
	}
}

// submissionRate is submissions per participant as a percentage string with
// one decimal place.
func submissionRate(participants, submissions int) string {
	if participants == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(submissions)/float64(participants)*100, 'f', 1, 64)
}

func EventStats(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		ctx := context.Background()

		var maxParticipants *int
		err := db.QueryRow(ctx,
			"SELECT max_participants FROM events WHERE id=$1", eventID,
		).Scan(&maxParticipants)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		var participants, judges, submissions, totalRatings int
		_ = db.QueryRow(ctx, "SELECT count(*) FROM event_participants WHERE event_id=$1", eventID).Scan(&participants)
		_ = db.QueryRow(ctx, "SELECT count(*) FROM event_judges WHERE event_id=$1", eventID).Scan(&judges)
		_ = db.QueryRow(ctx, "SELECT count(*) FROM projects WHERE event_id=$1", eventID).Scan(&submissions)
		_ = db.QueryRow(ctx, "SELECT count(*) FROM ratings WHERE event_id=$1", eventID).Scan(&totalRatings)

		c.JSON(200, gin.H{
			"participants":    participants,
			"maxParticipants": maxParticipants,
			"submissions":     submissions,
			"totalRatings":    totalRatings,
			"judges":          judges,
			"submissionRate":  submissionRate(participants, submissions),
		})
	}
}

func EventAnalytics(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		ctx := context.Background()

		var exists bool
		_ = db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM events WHERE id=$1)", eventID).Scan(&exists)
		if !exists {
			c.JSON(404, gin.H{"error": "Event not found"})
			return
		}

		var totalParticipants int
		_ = db.QueryRow(ctx, "SELECT count(*) FROM event_participants WHERE event_id=$1", eventID).Scan(&totalParticipants)

		submissionsByTrack := map[string]int{}
		totalSubmissions := 0
		rows, err := db.Query(ctx,
			"SELECT track, count(*) FROM projects WHERE event_id=$1 GROUP BY track", eventID)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		for rows.Next() {
			var track string
			var n int
			_ = rows.Scan(&track, &n)
			submissionsByTrack[track] = n
			totalSubmissions += n
		}
		rows.Close()

		judgeProgress := map[int]int{}
		totalRatings := 0
		var scoreSum float64
		rows, err = db.Query(ctx,
			"SELECT judge_id, count(*), sum(overall) FROM ratings WHERE event_id=$1 GROUP BY judge_id", eventID)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		for rows.Next() {
			var judgeID, n int
			var sum float64
			_ = rows.Scan(&judgeID, &n, &sum)
			judgeProgress[judgeID] = n
			totalRatings += n
			scoreSum += sum
		}
		rows.Close()

		averageRating := 0.0
		if totalRatings > 0 {
			averageRating = scoreSum / float64(totalRatings)
		}

		c.JSON(200, gin.H{
			"totalParticipants":  totalParticipants,
			"totalSubmissions":   totalSubmissions,
			"totalRatings":       totalRatings,
			"averageRating":      averageRating,
			"submissionsByTrack": submissionsByTrack,
			"judgeProgress":      judgeProgress,
		})
	}
}
