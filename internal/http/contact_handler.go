package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/domain"
	"contacts-api/internal/service"
)

// ContactHandler mantiene dependencias para endpoints de contactos.
type ContactHandler struct {
	logger    *zap.Logger
	contacts  *service.ContactService
	birthdays service.BirthdayQuerier
}

func NewContactHandler(logger *zap.Logger, contacts *service.ContactService, birthdays service.BirthdayQuerier) *ContactHandler {
	return &ContactHandler{
		logger:    logger,
		contacts:  contacts,
		birthdays: birthdays,
	}
}

// contactRequest es el payload de create/update. No acepta user_id:
// el owner sale siempre del token.
type contactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Phone     string `json:"phone" binding:"max=20"`
	Birthday  string `json:"birthday"`
	Notes     string `json:"notes" binding:"max=250"`
}

func (req contactRequest) toInput() (service.ContactInput, error) {
	input := service.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return service.ContactInput{}, err
		}
		input.Birthday = &birthday
	}
	return input, nil
}

// Create maneja POST /api/contacts.
func (h *ContactHandler) Create(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthday, expected YYYY-MM-DD"})
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), ownerID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContact) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create contact failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create contact"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// List maneja GET /api/contacts. find_string filtra por substring.
func (h *ContactHandler) List(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	contacts, err := h.contacts.List(c.Request.Context(), ownerID, c.Query("find_string"))
	if err != nil {
		h.logger.Error("list contacts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list contacts"})
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// Get maneja GET /api/contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	contact, err := h.contacts.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		h.respondContactError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// Update maneja PUT /api/contacts/:id. Reemplazo completo de campos.
func (h *ContactHandler) Update(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthday, expected YYYY-MM-DD"})
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), id, ownerID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContact) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondContactError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// Delete maneja DELETE /api/contacts/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id, ownerID); err != nil {
		h.respondContactError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact successfully deleted"})
}

// UpcomingBirthdays maneja GET /api/contacts/birthdays. days por defecto 7.
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	contacts, err := h.birthdays.Upcoming(c.Request.Context(), ownerID, time.Now().UTC(), days)
	if err != nil {
		if errors.Is(err, service.ErrNegativeWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must not be negative"})
			return
		}
		h.logger.Error("birthday window failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not query birthdays"})
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (h *ContactHandler) respondContactError(c *gin.Context, id int64, err error) {
	if errors.Is(err, service.ErrContactNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Contact with id: %d was not found", id)})
		return
	}
	h.logger.Error("contact operation failed", zap.Int64("contact_id", id), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
