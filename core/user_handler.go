package core

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type UserHandler struct {
	users UserRepository
}

func NewUserHandler(users UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the identity attached to the request.
func (h *UserHandler) Me(c *gin.Context) {
	id := CurrentIdentity(c)
	if id == nil {
		respondUnauthorized(c)
		return
	}
	respondData(c, http.StatusOK, id)
}

// List returns a page of users for administrators.
func (h *UserHandler) List(c *gin.Context) {
	page, perPage, err := parsePagination(c.Query("page"), c.Query("per_page"))
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	items, total, err := h.users.List(c.Request.Context(), page, perPage)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"items":       items,
		"page":        page,
		"per_page":    perPage,
		"total_items": total,
		"total_pages": calcTotalPages(total, perPage),
	})
}

func parsePagination(pageStr, perPageStr string) (int, int, error) {
	page := 1
	perPage := defaultPerPage
	if strings.TrimSpace(pageStr) != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, errors.New("page must be a positive integer")
		}
		page = p
	}
	if strings.TrimSpace(perPageStr) != "" {
		p, err := strconv.Atoi(perPageStr)
		if err != nil || p <= 0 {
			return 0, 0, errors.New("per_page must be a positive integer")
		}
		if p > maxPerPage {
			p = maxPerPage
		}
		perPage = p
	}
	return page, perPage, nil
}

func calcTotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
