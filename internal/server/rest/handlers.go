package rest

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/server/auth"
	"github.com/avasiljevs/healthsync/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResponse struct {
	AccountID    string `json:"accountId"`
	Username     string `json:"username"`
	SessionToken string `json:"sessionToken,omitempty"`
}

type recordResponse struct {
	RecordID  string          `json:"recordId"`
	AccountID string          `json:"accountId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Fields    json.RawMessage `json:"fields"`
}

type recordListResponse struct {
	Results []recordResponse `json:"results"`
}

type createRecordRequest struct {
	AccountID string          `json:"accountId"`
	Fields    json.RawMessage `json:"fields"`
}

type updateRecordRequest struct {
	Fields json.RawMessage `json:"fields"`
}

func toRecordResponse(rec *models.Record) recordResponse {
	fields := rec.Fields
	if len(fields) == 0 {
		fields = json.RawMessage(`{}`)
	}
	return recordResponse{
		RecordID:  rec.ID,
		AccountID: rec.AccountID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Fields:    fields,
	}
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (s *Server) ping(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) signUp(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "username and password are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error(c.Context(), "password hash failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	user, err := s.users.Create(c.Context(), req.Username, hash)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return errorJSON(c, fiber.StatusConflict, "username already taken")
		}
		s.log.Error(c.Context(), "user create failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	token, err := auth.GenerateToken(user.ID, s.secretKey, s.tokenValidity)
	if err != nil {
		s.log.Error(c.Context(), "token generation failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(fiber.StatusCreated).JSON(accountResponse{
		AccountID:    user.ID,
		Username:     user.Username,
		SessionToken: token,
	})
}

func (s *Server) login(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := s.users.GetByUsername(c.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errorJSON(c, fiber.StatusUnauthorized, "invalid username or password")
		}
		s.log.Error(c.Context(), "user lookup failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		s.log.Error(c.Context(), "password verify failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "invalid username or password")
	}

	token, err := auth.GenerateToken(user.ID, s.secretKey, s.tokenValidity)
	if err != nil {
		s.log.Error(c.Context(), "token generation failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(accountResponse{
		AccountID:    user.ID,
		Username:     user.Username,
		SessionToken: token,
	})
}

func (s *Server) currentAccount(c fiber.Ctx) error {
	user, err := s.users.GetByID(c.Context(), accountID(c))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errorJSON(c, fiber.StatusUnauthorized, "account no longer exists")
		}
		s.log.Error(c.Context(), "account lookup failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(accountResponse{AccountID: user.ID, Username: user.Username})
}

func (s *Server) listRecords(c fiber.Ctx) error {
	// the accountId query parameter is accepted for compatibility but the
	// session decides whose records are visible
	if q := c.Query("accountId"); q != "" && q != accountID(c) {
		return errorJSON(c, fiber.StatusForbidden, "cannot query another account")
	}

	recs, err := s.records.ListByAccount(c.Context(), accountID(c))
	if err != nil {
		s.log.Error(c.Context(), "record list failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	resp := recordListResponse{Results: make([]recordResponse, 0, len(recs))}
	for _, rec := range recs {
		resp.Results = append(resp.Results, toRecordResponse(rec))
	}
	return c.JSON(resp)
}

func (s *Server) createRecord(c fiber.Ctx) error {
	var req createRecordRequest
	if err := c.Bind().Body(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.AccountID != "" && req.AccountID != accountID(c) {
		return errorJSON(c, fiber.StatusForbidden, "cannot create records for another account")
	}
	if len(req.Fields) == 0 {
		req.Fields = json.RawMessage(`{}`)
	}

	rec, err := s.records.Create(c.Context(), accountID(c), req.Fields)
	if err != nil {
		s.log.Error(c.Context(), "record create failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(rec))
}

func (s *Server) updateRecord(c fiber.Ctx) error {
	var req updateRecordRequest
	if err := c.Bind().Body(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Fields) == 0 {
		req.Fields = json.RawMessage(`{}`)
	}

	rec, err := s.records.Update(c.Context(), accountID(c), c.Params("id"), req.Fields)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "record not found")
		}
		s.log.Error(c.Context(), "record update failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(toRecordResponse(rec))
}

func (s *Server) deleteRecord(c fiber.Ctx) error {
	if err := s.records.Delete(c.Context(), accountID(c), c.Params("id")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "record not found")
		}
		s.log.Error(c.Context(), "record delete failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
