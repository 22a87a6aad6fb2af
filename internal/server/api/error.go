package api

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/looplj/llmsim/internal/pipeline"
	"github.com/looplj/llmsim/internal/simapi"
)

// bindRequest reads the raw body once, rejecting it fast (without paying for
// a full struct decode) when "model" is missing or empty, then decodes the
// body into v. Returns ok=false after already writing the error response.
func bindRequest(c *gin.Context, v interface{}) bool {
	raw, err := c.GetRawData()
	if err != nil {
		writeError(c, 400, "invalid_request_error", "Failed to read request body: "+err.Error(), nil)
		return false
	}

	if gjson.GetBytes(raw, "model").String() == "" {
		param := "model"
		writeError(c, 400, "invalid_request_error", "Missing required parameter: 'model'", &param)

		return false
	}

	if err := json.Unmarshal(raw, v); err != nil {
		writeError(c, 400, "invalid_request_error", "Invalid request body: "+err.Error(), nil)
		return false
	}

	return true
}

// writeError writes the standard {error:{message,type,param?,code?}}
// envelope for a validation or internal failure.
func writeError(c *gin.Context, status int, errType, message string, param *string) {
	body := simapi.ErrorBody{Message: message, Type: errType}
	if param != nil {
		body.Param = *param
	}

	c.JSON(status, simapi.ErrorEnvelope{Error: body})
}

// writeFailure writes a pipeline.Failure, setting Retry-After when present.
func writeFailure(c *gin.Context, f *pipeline.Failure) {
	if f.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*f.RetryAfter))
	}

	c.JSON(f.Status, f.Envelope)
}
