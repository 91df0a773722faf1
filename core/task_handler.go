package core

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserTaskHandler serves the tasks assigned to a user.
type UserTaskHandler struct {
	tasks TaskRepository
}

func NewUserTaskHandler(tasks TaskRepository) *UserTaskHandler {
	return &UserTaskHandler{tasks: tasks}
}

// ReadUserTasks lists the incomplete tasks of :userID, highest priority first.
func (h *UserTaskHandler) ReadUserTasks(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	tasks, err := h.tasks.ListIncompleteByAssignee(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, http.StatusOK, tasks)
}
