package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindInvalidInput.Status())
	assert.Equal(t, http.StatusBadRequest, KindConflict.Status())
	assert.Equal(t, http.StatusUnauthorized, KindTokenExpired.Status())
	assert.Equal(t, http.StatusForbidden, KindForbidden.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusInternalServerError, Kind("mystery").Status())
}

func TestError_DefaultAndCustomMsg(t *testing.T) {
	assert.Equal(t, ErrBody{Error: "Not Found", Code: KindNotFound}, Error(KindNotFound, ""))
	assert.Equal(t, ErrBody{Error: "Task not found", Code: KindNotFound}, Error(KindNotFound, "Task not found"))
}
