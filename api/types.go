package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	mediaHandler   mediaHandler
	importHandler  importHandler
	statusHandler  statusHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

var validate = validator.New()

// StringList accepts either a JSON array of strings or a single
// comma-joined string. Entries are trimmed and empties dropped either way.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var raw []string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		var out []string
		for _, entry := range raw {
			if entry = strings.TrimSpace(entry); entry != "" {
				out = append(out, entry)
			}
		}
		*l = out
		return nil
	case '"':
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*l = models.SplitList(raw)
		return nil
	case 'n': // null
		return nil
	default:
		return fmt.Errorf("expected string or array of strings")
	}
}

// FlexInt accepts a JSON number or a digit string. An empty string is
// treated as absent (Valid stays false); a non-numeric string is a decode
// error rather than a silent best-effort cast.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		f.Value, f.Valid = value, true
		return nil
	}
	var value int
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	f.Value, f.Valid = value, true
	return nil
}

// createProjectRequest is the raw creation payload, JSON or form
type createProjectRequest struct {
	Title       string     `json:"title"`
	StudentName string     `json:"student_name"`
	Categories  StringList `json:"categories"`
	Tags        StringList `json:"tags"`
	Description *string    `json:"description"`
	Year        FlexInt    `json:"year"`
	VideoURL    *string    `json:"video_url"`
	Rating      FlexInt    `json:"rating"`
}

// createProjectCommand is the validated, strongly-typed creation command
type createProjectCommand struct {
	Title       string `validate:"required"`
	StudentName string `validate:"required"`
	Categories  []string
	Tags        []string
	Description *string
	Year        *int
	VideoURL    *string
	Rating      int
}

// toCommand validates the raw payload into a typed command. Missing
// required fields surface as validation errors, never as store failures.
func (req createProjectRequest) toCommand() (*createProjectCommand, error) {
	cmd := &createProjectCommand{
		Title:       strings.TrimSpace(req.Title),
		StudentName: strings.TrimSpace(req.StudentName),
		Categories:  req.Categories,
		Tags:        req.Tags,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	}
	if req.Year.Valid {
		year := req.Year.Value
		cmd.Year = &year
	}
	if req.Rating.Valid {
		cmd.Rating = req.Rating.Value
	}
	if err := validate.Struct(cmd); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, errs.NewMissingRequiredFieldError(snakeCase(fieldErrs[0].Field()))
		}
		return nil, errs.NewBadRequestError(err.Error())
	}
	return cmd, nil
}

// project builds the model for the repository from the command
func (cmd createProjectCommand) project() models.Project {
	project := models.Project{
		Title:       cmd.Title,
		StudentName: cmd.StudentName,
		Tags:        models.JoinTags(cmd.Tags),
		Description: cmd.Description,
		Year:        cmd.Year,
		VideoURL:    cmd.VideoURL,
		Rating:      cmd.Rating,
	}
	if len(cmd.Categories) > 0 {
		project.Category = models.JoinTags(cmd.Categories)
	}
	return project
}

// updateProjectRequest is the partial-update payload. A nil pointer means
// the field was omitted and must stay untouched; a set pointer overwrites.
type updateProjectRequest struct {
	Title       *string     `json:"title"`
	StudentName *string     `json:"student_name"`
	Categories  *StringList `json:"categories"`
	Tags        *StringList `json:"tags"`
	Description *string     `json:"description"`
	Year        *FlexInt    `json:"year"`
	VideoURL    *string     `json:"video_url"`
	Rating      *FlexInt    `json:"rating"`
}

// toUpdate maps the payload onto the repository's partial update
func (req updateProjectRequest) toUpdate() models.ProjectUpdate {
	update := models.ProjectUpdate{
		Title:       req.Title,
		StudentName: req.StudentName,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	}
	if req.Categories != nil {
		categories := []string(*req.Categories)
		update.Category = &categories
	}
	if req.Tags != nil {
		tags := []string(*req.Tags)
		update.Tags = &tags
	}
	if req.Year != nil && req.Year.Valid {
		year := req.Year.Value
		update.Year = &year
	}
	if req.Rating != nil && req.Rating.Valid {
		rating := req.Rating.Value
		update.Rating = &rating
	}
	return update
}

// createRequestFromForm maps urlencoded or multipart form fields onto the
// creation payload. Numeric fields that fail to parse are explicit
// validation errors.
func createRequestFromForm(form url.Values) (*createProjectRequest, error) {
	req := &createProjectRequest{
		Title:       form.Get("title"),
		StudentName: form.Get("student_name"),
		Categories:  models.SplitList(form.Get("categories")),
		Tags:        models.SplitList(form.Get("tags")),
	}
	if description := form.Get("description"); description != "" {
		req.Description = &description
	}
	if videoURL := form.Get("video_url"); videoURL != "" {
		req.VideoURL = &videoURL
	}
	year, err := formInt(form, "year")
	if err != nil {
		return nil, err
	}
	req.Year = year
	rating, err := formInt(form, "rating")
	if err != nil {
		return nil, err
	}
	req.Rating = rating
	return req, nil
}

func formInt(form url.Values, key string) (FlexInt, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return FlexInt{}, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return FlexInt{}, errs.NewInvalidFieldError(key, "must be an integer")
	}
	return FlexInt{Value: value, Valid: true}, nil
}

// snakeCase converts a Go field name to its payload key
func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
