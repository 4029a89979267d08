package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/auth"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/goal"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// text accepts a JSON string or number. Forms post amounts as strings,
// scripts tend to post numbers.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	switch {
	case string(b) == "null":
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(b)
	}
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return bankerror.NewValidation("body", "", "must be a valid JSON object")
	}
	return nil
}

func optionalAmount(field string, v *text) (*decimal.Decimal, error) {
	if v == nil || strings.TrimSpace(string(*v)) == "" {
		return nil, nil
	}
	amount, err := currencyutils.ParseNonNegative(field, string(*v))
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

func optionalDate(field string, v *text) (*dateutils.Date, error) {
	if v == nil || strings.TrimSpace(string(*v)) == "" {
		return nil, nil
	}
	day, err := dateutils.ParseISO(string(*v))
	if err != nil {
		return nil, bankerror.NewValidation(field, string(*v), "must be a YYYY-MM-DD date")
	}
	return &day, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if s.auth == nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expires, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		s.log.Warn("Rejected login", logging.F(logging.FieldUser, req.Username))
		s.fail(w, err)
		return
	}
	s.log.Info("Logged in", logging.F(logging.FieldUser, req.Username))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

func (s *Server) authStatus(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if s.auth != nil {
		_, err := s.auth.VerifyToken(auth.BearerToken(r.Header.Get("Authorization")))
		authenticated = err == nil
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": authenticated})
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Overview(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

type transactionRequest struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount *text  `json:"amount"`
	Date   *text  `json:"date"`
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	direction, err := models.ParseDirection(req.Type)
	if err != nil {
		s.fail(w, err)
		return
	}
	var raw string
	if req.Amount != nil {
		raw = string(*req.Amount)
	}
	amount, err := currencyutils.ParsePositive("amount", raw)
	if err != nil {
		s.fail(w, err)
		return
	}
	date, err := optionalDate("date", req.Date)
	if err != nil {
		s.fail(w, err)
		return
	}

	tx, err := s.svc.AddTransaction(r.Context(), account.NewTransaction{
		Direction: direction,
		Label:     req.Name,
		Amount:    amount,
		Date:      date,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "transaction": tx})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.DeleteTransaction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "transaction": tx})
}

func (s *Server) deleteTransactionAt(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["index"]
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.fail(w, bankerror.NewValidation("index", raw, "must be a number"))
		return
	}
	tx, err := s.svc.DeleteTransactionAt(r.Context(), index)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "transaction": tx})
}

type initialSettingsRequest struct {
	AccountHolder    *string `json:"account_holder"`
	InitialBalance   *text   `json:"initial_balance"`
	StartDate        *text   `json:"start_date"`
	InitialAllowance *text   `json:"initial_allowance"`
	InitialInterest  *text   `json:"initial_interest"`
}

func (s *Server) updateInitialSettings(w http.ResponseWriter, r *http.Request) {
	var req initialSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	update := account.InitialSettingsUpdate{AccountHolder: req.AccountHolder}
	var err error
	if update.InitialBalance, err = optionalAmount("initial_balance", req.InitialBalance); err != nil {
		s.fail(w, err)
		return
	}
	if update.StartDate, err = optionalDate("start_date", req.StartDate); err != nil {
		s.fail(w, err)
		return
	}
	if update.Allowance, err = optionalAmount("initial_allowance", req.InitialAllowance); err != nil {
		s.fail(w, err)
		return
	}
	if update.InterestPercent, err = optionalAmount("initial_interest", req.InitialInterest); err != nil {
		s.fail(w, err)
		return
	}

	ov, err := s.svc.UpdateInitialSettings(r.Context(), update)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "account": ov})
}

type currentSettingsRequest struct {
	CurrentAllowance *text `json:"current_allowance"`
	CurrentInterest  *text `json:"current_interest"`
}

func (s *Server) updateCurrentSettings(w http.ResponseWriter, r *http.Request) {
	var req currentSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	var update account.CurrentSettingsUpdate
	var err error
	if update.Allowance, err = optionalAmount("current_allowance", req.CurrentAllowance); err != nil {
		s.fail(w, err)
		return
	}
	if update.InterestPercent, err = optionalAmount("current_interest", req.CurrentInterest); err != nil {
		s.fail(w, err)
		return
	}

	ov, err := s.svc.UpdateCurrentSettings(r.Context(), update)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "account": ov})
}

func (s *Server) recalculate(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Recalculate(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"removed":     res.Removed,
		"regenerated": res.Regenerated.Events,
	})
}

type goalRequest struct {
	GoalAmount *text `json:"goal_amount"`
	GoalDate   *text `json:"goal_date"`
}

type goalResponse struct {
	Success bool `json:"success"`
	goal.Projection
	Message  string `json:"message"`
	Message2 string `json:"message2,omitempty"`
}

func (s *Server) calculateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	var raw string
	if req.GoalAmount != nil {
		raw = string(*req.GoalAmount)
	}
	amount, err := currencyutils.ParsePositive("goal_amount", raw)
	if err != nil {
		s.fail(w, err)
		return
	}
	date, err := optionalDate("goal_date", req.GoalDate)
	if err != nil {
		s.fail(w, err)
		return
	}
	if date == nil {
		s.fail(w, bankerror.NewValidation("goal_date", "", "is required"))
		return
	}

	p, err := s.svc.ProjectGoal(r.Context(), goal.Request{Amount: amount, Date: *date})
	if err != nil {
		s.fail(w, err)
		return
	}
	msg, msg2 := goal.Messages(p)
	writeJSON(w, http.StatusOK, goalResponse{Success: true, Projection: p, Message: msg, Message2: msg2})
}
