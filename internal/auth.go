package internal

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]bool{"participant": true, "organizer": true, "judge": true}

func Register(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			c.JSON(400, gin.H{"error": "fill all fields"})
			return
		}
		if !validRoles[req.Role] {
			c.JSON(400, gin.H{"error": "role must be participant, organizer or judge"})
			return
		}

		ctx := context.Background()

		var exists bool
		_ = db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)", req.Email,
		).Scan(&exists)
		if exists {
			c.JSON(409, gin.H{"error": "User already exists"})
			return
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), 10)

		var id int
		err := db.QueryRow(ctx,
			"INSERT INTO users(name, email, pass_hash, role) VALUES ($1,$2,$3,$4) RETURNING id",
			req.Name, req.Email, string(hash), req.Role,
		).Scan(&id)
		if err != nil {
			// unique index closes the race the existence check leaves open
			if isUniqueViolation(err) {
				c.JSON(409, gin.H{"error": "User already exists"})
				return
			}
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		logAction(db, &id, "register", "email="+req.Email)
		c.JSON(200, gin.H{"id": id})
	}
}

func Login(db *pgxpool.Pool, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}

		var u User
		var passHash string
		err := db.QueryRow(context.Background(),
			"SELECT id, name, email, role, created_at, pass_hash FROM users WHERE email=$1",
			req.Email,
		).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &passHash)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(passHash), []byte(req.Password)) != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			UserID: u.ID,
			Role:   u.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Issuer:    "hackhub",
			},
		})
		s, _ := tok.SignedString([]byte(secret))

		secure := os.Getenv("COOKIE_SECURE") == "1"
		c.SetCookie(cookieName, s, 86400, "/", "", secure, true)

		logAction(db, &u.ID, "login", "success")
		c.JSON(200, u)
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func Me(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uid(c)
		var u User
		err := db.QueryRow(context.Background(),
			"SELECT id, name, email, role, created_at FROM users WHERE id=$1", id,
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
