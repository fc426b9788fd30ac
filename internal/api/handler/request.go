package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Rrens/seo-writer/internal/api/response"
)

var validate = validator.New()

// maxBodyBytes bounds request bodies; generated articles stay well under it
const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst and validates it.
// It writes the 400 response itself and returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeRaw(w, r, dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}
	return check(w, dst)
}

// decodeRaw reads a JSON body into dst without validating it
func decodeRaw(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// decodeUpdate is decode restricted to the allowed keys; any other key rejects the whole update
func decodeUpdate(w http.ResponseWriter, r *http.Request, dst any, allowed []string) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			response.BadRequest(w, "invalid updates, allowed fields: "+strings.Join(allowed, ", "))
			return false
		}
		response.BadRequest(w, "invalid request body")
		return false
	}
	return check(w, dst)
}

func check(w http.ResponseWriter, dst any) bool {
	err := validate.Struct(dst)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		response.BadRequest(w, err.Error())
		return false
	}

	fields := make(map[string]string)
	for _, e := range validationErrors {
		field := lowerFirst(e.Field())
		switch e.Tag() {
		case "required":
			fields[field] = "field is required"
		case "email":
			fields[field] = "invalid email format"
		case "url":
			fields[field] = "invalid url"
		case "min":
			fields[field] = "must be at least " + e.Param()
		case "max":
			fields[field] = "must be at most " + e.Param()
		case "gt":
			fields[field] = "must be greater than " + e.Param()
		case "oneof":
			fields[field] = "must be one of: " + e.Param()
		default:
			fields[field] = "validation failed on " + e.Tag()
		}
	}
	response.BadRequest(w, fields)
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
