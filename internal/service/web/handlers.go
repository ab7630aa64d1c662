package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gym_checkin/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionAdminKey      = "isAdmin"
	defaultCheckInsLimit = 20
	maxCheckInsLimit     = 100
)

var errBadQuery = errors.New("invalid query parameter")

// handleCheckIn всегда отвечает 200, исход передается в теле
func (s *Server) handleCheckIn(c *gin.Context) {
	verdict := s.checkIn.CheckIn(c.Request.Context(), c.PostForm("phoneNumber"))
	c.JSON(http.StatusOK, verdict)
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	password := c.PostForm("password")

	if s.opts.PasswordHash == "" || password == "" ||
		bcrypt.CompareHashAndPassword([]byte(s.opts.PasswordHash), []byte(password)) != nil {
		s.appendLog(c, "Failed admin login attempt", model.SeverityWarning)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid password"})
		return
	}

	token, err := s.sessions.Create(map[string]any{sessionAdminKey: true})
	if err != nil {
		s.logger.Error("error creating admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "session error"})
		return
	}

	s.setSessionCookie(c, token, int(s.opts.SessionTTL.Seconds()))
	s.appendLog(c, "Admin logged in", model.SeverityInfo)
	s.logger.Debug("admin session created", zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleAdminLogout(c *gin.Context) {
	if token, err := c.Cookie(s.opts.CookieName); err == nil && token != "" {
		if err := s.sessions.Destroy(token); err != nil {
			s.logger.Debug("error destroying admin session", zap.Error(err))
		}
	}
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleLogs отдает записи журнала после after, админка опрашивает его по lastId
func (s *Server) handleLogs(c *gin.Context) {
	after, err := queryUint(c, "after")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, err := s.systemLog.Poll(c.Request.Context(), after, limit)
	if err != nil {
		s.logger.Error("error polling system logs", zap.Error(err), zap.Uint("after", after))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	if logs == nil {
		logs = []model.SystemLog{}
	}

	lastID := after
	if len(logs) > 0 {
		lastID = logs[len(logs)-1].ID
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "lastId": lastID})
}

func (s *Server) handleRecentCheckIns(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultCheckInsLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if limit <= 0 || limit > maxCheckInsLimit {
		limit = maxCheckInsLimit
	}

	checkIns, err := s.checkIns.ListRecentCheckIns(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("error listing recent check-ins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load check-ins"})
		return
	}
	if checkIns == nil {
		checkIns = []model.CheckIn{}
	}
	c.JSON(http.StatusOK, gin.H{"checkIns": checkIns})
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.opts.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sess, err := s.sessions.Get(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if isAdmin, _ := sess.Values[sessionAdminKey].(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.opts.CookieName, value, maxAge, "/", "", s.opts.SecureCookie, true)
}

// appendLog пишет событие входа в журнал, сбой журнала не ломает вход
func (s *Server) appendLog(c *gin.Context, message, severity string) {
	details := map[string]any{"ip": c.ClientIP()}
	if err := s.systemLog.Append(c.Request.Context(), message, model.EventAdminLogin, severity, details); err != nil {
		s.logger.Error("error writing admin login event", zap.Error(err))
	}
}

func queryUint(c *gin.Context, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadQuery, key)
	}
	return uint(v), nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadQuery, key)
	}
	return v, nil
}
