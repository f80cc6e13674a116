package api

import (
	"strconv"
	"strings"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
	"vocab-learning/internal/service"
)

// requireFields fails with the names of every empty field, in order.
func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req registerRequest) validate() error {
	if err := requireFields(
		[2]string{"username", req.Username},
		[2]string{"email", req.Email},
		[2]string{"password", req.Password},
	); err != nil {
		return err
	}
	if err := domain.ValidateUsername(strings.TrimSpace(req.Username)); err != nil {
		return err
	}
	if err := domain.ValidateEmail(strings.TrimSpace(req.Email)); err != nil {
		return err
	}
	return domain.ValidatePassword(req.Password)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req loginRequest) validate() error {
	return requireFields([2]string{"username", req.Username}, [2]string{"password", req.Password})
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (req profileRequest) validate() error {
	if strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "" {
		return apperr.Validation("Missing required fields: username, email")
	}
	return nil
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (req passwordRequest) validate() error {
	return requireFields(
		[2]string{"current_password", req.CurrentPassword},
		[2]string{"new_password", req.NewPassword},
	)
}

// submitRequest carries answers keyed by test id as JSON object keys.
type submitRequest struct {
	Answers        map[string]any `json:"answers"`
	CompletionTime *int           `json:"completion_time"`
}

func (req submitRequest) toSubmission(userID, topicID int64) (service.Submission, error) {
	var missing []string
	if len(req.Answers) == 0 {
		missing = append(missing, "answers")
	}
	if req.CompletionTime == nil {
		missing = append(missing, "completion_time")
	}
	if len(missing) > 0 {
		return service.Submission{}, apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if *req.CompletionTime < 0 {
		return service.Submission{}, apperr.Validation("completion_time must be greater than or equal to 0")
	}

	answers := make(map[int64]string, len(req.Answers))
	for key, value := range req.Answers {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil || id < 1 {
			return service.Submission{}, apperr.Validation("Invalid test_id: %s", key)
		}
		answer, ok := value.(string)
		if !ok {
			return service.Submission{}, apperr.Validation("Answer for test %d must be a string", id)
		}
		answers[id] = answer
	}

	return service.Submission{
		UserID:         userID,
		TopicID:        topicID,
		Answers:        answers,
		CompletionTime: *req.CompletionTime,
	}, nil
}

// parseLimit reads the top-users limit query value; empty means the default.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return service.DefaultTopLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("limit must be an integer")
	}
	if limit < 1 || limit > service.MaxTopLimit {
		return 0, apperr.Validation("limit must be between 1 and %d", service.MaxTopLimit)
	}
	return limit, nil
}
