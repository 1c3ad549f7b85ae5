package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Status derivation

	"github.com/SofiaUmrish/sneaker-drop/internal/domain"     // Importing domain models
	"github.com/SofiaUmrish/sneaker-drop/internal/middleware" // Auth context helpers
	"github.com/SofiaUmrish/sneaker-drop/internal/store"      // Repositories

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SetReminderHandler records a reminder; repeating the call is a no-op
func SetReminderHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ShoeRefRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shoe_id is required"})
			return
		}
		err := st.AddReminder(c.Request.Context(), userID, uint(req.ShoeID))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shoe not found"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"shoe_id": req.ShoeID,  // Shoe ID
				"error":   err.Error(), // Error message
			}).Error("Set reminder failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set reminder"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reminder set successfully"})
	}
}

// ListRemindersHandler returns the user's reminders joined with shoe data, soonest first
func ListRemindersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		reminders, err := st.ListReminders(c.Request.Context(), userID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Fetch reminders failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reminders"})
			return
		}
		now := time.Now()
		views := make([]domain.ReminderView, len(reminders))
		for i, r := range reminders {
			views[i] = domain.ReminderView{ReminderID: r.ID, ShoeView: domain.NewShoeView(r.Shoe, now)}
		}
		c.JSON(http.StatusOK, views)
	}
}

// RemoveReminderHandler deletes one of the user's reminders; unknown ids succeed
func RemoveReminderHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		reminderID, ok := paramID(c, "id")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reminder id"})
			return
		}
		if err := st.RemoveReminder(c.Request.Context(), userID, reminderID); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "reminder_id": reminderID, "error": err.Error()}).Error("Remove reminder failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reminder"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reminder removed"})
	}
}
