package internal

import (
	"context"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

var errInviteNotPending = errors.New("Invalid or expired invite")

// inviteTransition validates moving an invite from current to next status.
// Only pending invites move; accepted and declined are terminal.
func inviteTransition(current, next string) error {
	if current != InvitePending {
		return errInviteNotPending
	}
	if next != InviteAccepted && next != InviteDeclined {
		return errInviteNotPending
	}
	return nil
}

func CreateTeam(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			LeaderID    int    `json:"leaderId"`
			EventID     *int   `json:"eventId"`
		}
		if err := c.BindJSON(&req); err != nil || req.Name == "" || req.LeaderID == 0 {
			c.JSON(400, gin.H{"error": "name and leaderId are required"})
			return
		}

		ctx := context.Background()
		var id int
		err := db.QueryRow(ctx,
			"INSERT INTO teams(name, description, leader_id, event_id) VALUES ($1,$2,$3,$4) RETURNING id",
			req.Name, req.Description, req.LeaderID, req.EventID,
		).Scan(&id)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		// leader is always a member
		_, _ = db.Exec(ctx,
			"INSERT INTO team_members(team_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING",
			id, req.LeaderID,
		)

		logAction(db, &req.LeaderID, "create_team", "team_id="+strconv.Itoa(id))
		c.JSON(200, gin.H{"id": id})
	}
}

func ListTeams(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		teams, err := queryTeams(context.Background(), db, teamSelect())
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, teams)
	}
}

func TeamsForEvent(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("eventId"))
		teams, err := queryTeams(context.Background(), db,
			teamSelect().Where(sq.Eq{"event_id": eventID}))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, teams)
	}
}

func teamSelect() sq.SelectBuilder {
	return psql.Select("id", "name", "description", "leader_id", "event_id", "created_at").
		From("teams").OrderBy("id DESC")
}

func queryTeams(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) ([]Team, error) {
	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []Team{}
	index := map[int]int{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.LeaderID, &t.EventID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Members = []int{}
		t.Invites = []Invite{}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := db.Query(ctx, "SELECT team_id, user_id FROM team_members ORDER BY team_id, user_id")
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var teamID, userID int
		if err := mrows.Scan(&teamID, &userID); err != nil {
			return nil, err
		}
		if i, ok := index[teamID]; ok {
			teams[i].Members = append(teams[i].Members, userID)
		}
	}

	irows, err := db.Query(ctx,
		"SELECT team_id, id, email, invited_by, status, created_at FROM team_invites ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var teamID int
		var inv Invite
		if err := irows.Scan(&teamID, &inv.ID, &inv.Email, &inv.InvitedBy, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[teamID]; ok {
			teams[i].Invites = append(teams[i].Invites, inv)
		}
	}
	return teams, irows.Err()
}

func InviteToTeam(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, _ := strconv.Atoi(c.Param("teamId"))
		var req struct {
			Email     string `json:"email"`
			InvitedBy int    `json:"invitedBy"`
		}
		if err := c.BindJSON(&req); err != nil || req.Email == "" {
			c.JSON(400, gin.H{"error": "email is required"})
			return
		}

		ctx := context.Background()

		var teamExists bool
		_ = db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM teams WHERE id=$1)", teamID).Scan(&teamExists)
		if !teamExists {
			c.JSON(404, gin.H{"error": "Team not found"})
			return
		}

		var inviterIsMember bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id=$1 AND user_id=$2)",
			teamID, req.InvitedBy,
		).Scan(&inviterIsMember)
		if !inviterIsMember {
			c.JSON(403, gin.H{"error": "Only team members can send invites"})
			return
		}

		var targetID int
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email=$1", req.Email).Scan(&targetID)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "User with this email not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		var alreadyMember bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id=$1 AND user_id=$2)",
			teamID, targetID,
		).Scan(&alreadyMember)
		if alreadyMember {
			c.JSON(400, gin.H{"error": "User is already a team member"})
			return
		}

		var pending bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM team_invites WHERE team_id=$1 AND email=$2 AND status='pending')",
			teamID, req.Email,
		).Scan(&pending)
		if pending {
			c.JSON(400, gin.H{"error": "User already has a pending invitation"})
			return
		}

		inviteID := uuid.New()
		_, err = db.Exec(ctx,
			"INSERT INTO team_invites(id, team_id, email, invited_by) VALUES ($1,$2,$3,$4)",
			inviteID, teamID, req.Email, req.InvitedBy,
		)
		if err != nil {
			// partial unique index: one pending invite per (team, email)
			if isUniqueViolation(err) {
				c.JSON(400, gin.H{"error": "User already has a pending invitation"})
				return
			}
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		logAction(db, &req.InvitedBy, "invite_to_team", "team_id="+strconv.Itoa(teamID))
		c.JSON(200, gin.H{"success": true, "inviteId": inviteID.String()})
	}
}

func JoinTeam(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, _ := strconv.Atoi(c.Param("teamId"))
		var req struct {
			UserID   int    `json:"userId"`
			InviteID string `json:"inviteId"`
		}
		if err := c.BindJSON(&req); err != nil || req.UserID == 0 {
			c.JSON(400, gin.H{"error": "userId is required"})
			return
		}

		ctx := context.Background()

		var teamExists bool
		_ = db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM teams WHERE id=$1)", teamID).Scan(&teamExists)
		if !teamExists {
			c.JSON(404, gin.H{"error": "Team not found"})
			return
		}

		if req.InviteID != "" {
			inviteID, err := uuid.Parse(req.InviteID)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid or expired invite"})
				return
			}

			var current string
			err = db.QueryRow(ctx,
				"SELECT status FROM team_invites WHERE id=$1 AND team_id=$2",
				inviteID, teamID,
			).Scan(&current)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid or expired invite"})
				return
			}
			if err := inviteTransition(current, InviteAccepted); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}

			// status predicate repeated on the write so a concurrent
			// accept/decline cannot consume the invite twice
			tag, err := db.Exec(ctx,
				"UPDATE team_invites SET status=$1 WHERE id=$2 AND team_id=$3 AND status=$4",
				InviteAccepted, inviteID, teamID, InvitePending,
			)
			if err != nil {
				c.JSON(500, gin.H{"error": err.Error()})
				return
			}
			if tag.RowsAffected() == 0 {
				c.JSON(400, gin.H{"error": "Invalid or expired invite"})
				return
			}
		}

		_, err := db.Exec(ctx,
			"INSERT INTO team_members(team_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING",
			teamID, req.UserID,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		logAction(db, &req.UserID, "join_team", "team_id="+strconv.Itoa(teamID))
		c.JSON(200, gin.H{"success": true})
	}
}

func AddTeamMember(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, _ := strconv.Atoi(c.Param("teamId"))
		var req struct {
			Email   string `json:"email"`
			AddedBy int    `json:"addedBy"`
		}
		if err := c.BindJSON(&req); err != nil || req.Email == "" {
			c.JSON(400, gin.H{"error": "email is required"})
			return
		}

		ctx := context.Background()

		var leaderID int
		err := db.QueryRow(ctx, "SELECT leader_id FROM teams WHERE id=$1", teamID).Scan(&leaderID)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "Team not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if req.AddedBy != leaderID {
			c.JSON(403, gin.H{"error": "Only team leader can add members directly"})
			return
		}

		var targetID int
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email=$1", req.Email).Scan(&targetID)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		var alreadyMember bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id=$1 AND user_id=$2)",
			teamID, targetID,
		).Scan(&alreadyMember)
		if alreadyMember {
			c.JSON(400, gin.H{"error": "User is already a team member"})
			return
		}

		_, err = db.Exec(ctx,
			"INSERT INTO team_members(team_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING",
			teamID, targetID,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		logAction(db, &req.AddedBy, "add_team_member", "team_id="+strconv.Itoa(teamID))
		c.JSON(200, gin.H{"success": true, "message": "Member added successfully"})
	}
}

var (
	errRemoveForbidden = errors.New("Only team leader or the member themselves can remove from team")
	errRemoveLeader    = errors.New("Team leader cannot be removed")
)

// removalGuard: only the leader or the member themself may remove, and the
// leader can never be removed, not even by themself.
func removalGuard(leaderID, removedBy, userID int) error {
	if removedBy != leaderID && userID != removedBy {
		return errRemoveForbidden
	}
	if userID == leaderID {
		return errRemoveLeader
	}
	return nil
}

func RemoveTeamMember(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, _ := strconv.Atoi(c.Param("teamId"))
		userID, _ := strconv.Atoi(c.Param("userId"))
		var req struct {
			RemovedBy int `json:"removedBy"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}

		ctx := context.Background()

		var leaderID int
		err := db.QueryRow(ctx, "SELECT leader_id FROM teams WHERE id=$1", teamID).Scan(&leaderID)
		if err == pgx.ErrNoRows {
			c.JSON(404, gin.H{"error": "Team not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		if err := removalGuard(leaderID, req.RemovedBy, userID); err != nil {
			code := 400
			if err == errRemoveForbidden {
				code = 403
			}
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}

		_, err = db.Exec(ctx,
			"DELETE FROM team_members WHERE team_id=$1 AND user_id=$2",
			teamID, userID,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		logAction(db, &req.RemovedBy, "remove_team_member", "team_id="+strconv.Itoa(teamID))
		c.JSON(200, gin.H{"success": true, "message": "Member removed successfully"})
	}
}

func DeclineInvite(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, _ := strconv.Atoi(c.Param("teamId"))
		inviteID, err := uuid.Parse(c.Param("inviteId"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid or expired invite"})
			return
		}

		ctx := context.Background()

		var current string
		err = db.QueryRow(ctx,
			"SELECT status FROM team_invites WHERE id=$1 AND team_id=$2",
			inviteID, teamID,
		).Scan(&current)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid or expired invite"})
			return
		}
		if err := inviteTransition(current, InviteDeclined); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		tag, err := db.Exec(ctx,
			"UPDATE team_invites SET status=$1 WHERE id=$2 AND team_id=$3 AND status=$4",
			InviteDeclined, inviteID, teamID, InvitePending,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(400, gin.H{"error": "Invalid or expired invite"})
			return
		}

		c.JSON(200, gin.H{"success": true, "message": "Invitation declined"})
	}
}
