package patient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careline/pkg/sentinel"
)

func newTestRouter(t *testing.T, bill BillingClient) http.Handler {
	t.Helper()
	coord := testCoordinator(NewInMemoryStore(), bill, &fakePublisher{})
	return NewHandler(coord).Routes()
}

func createBody(name, email string) string {
	return fmt.Sprintf(`{"name":%q,"email":%q,"address":"1 Main St","dateOfBirth":"1990-02-03"}`, name, email)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePatientEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeBilling{})

	rec := doJSON(t, router, http.MethodPost, "/patients", createBody("Alice", "a@x.com"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp patientResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "1990-02-03", resp.DateOfBirth)
	assert.NotEmpty(t, resp.RegisteredDate)

	t.Run("duplicate email maps to 400", func(t *testing.T) {
		dup := doJSON(t, router, http.MethodPost, "/patients", createBody("Other", "a@x.com"))
		assert.Equal(t, http.StatusBadRequest, dup.Code)
		assert.Contains(t, dup.Body.String(), "email address already exists")
	})

	t.Run("created record is listed and retrievable", func(t *testing.T) {
		list := doJSON(t, router, http.MethodGet, "/patients", "")
		require.Equal(t, http.StatusOK, list.Code)
		var all []patientResponse
		require.NoError(t, json.NewDecoder(list.Body).Decode(&all))
		require.Len(t, all, 1)

		got := doJSON(t, router, http.MethodGet, "/patients/"+resp.ID, "")
		assert.Equal(t, http.StatusOK, got.Code)
	})
}

func TestCreatePatientValidation(t *testing.T) {
	router := newTestRouter(t, &fakeBilling{})

	cases := map[string]string{
		"not json":      `{`,
		"missing name":  `{"email":"a@x.com","address":"x","dateOfBirth":"1990-02-03"}`,
		"bad email":     `{"name":"A","email":"not-an-email","address":"x","dateOfBirth":"1990-02-03"}`,
		"bad birthdate": `{"name":"A","email":"a@x.com","address":"x","dateOfBirth":"03/02/1990"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/patients", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreatePatientBillingFailureMapsTo502(t *testing.T) {
	router := newTestRouter(t, &fakeBilling{err: sentinel.ErrBillingUnavailable})

	rec := doJSON(t, router, http.MethodPost, "/patients", createBody("Alice", "a@x.com"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpdatePatientEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeBilling{})

	created := doJSON(t, router, http.MethodPost, "/patients", createBody("Alice", "a@x.com"))
	require.Equal(t, http.StatusOK, created.Code)
	var resp patientResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&resp))

	updated := doJSON(t, router, http.MethodPut, "/patients/"+resp.ID, createBody("Alice Cooper", "a@x.com"))
	require.Equal(t, http.StatusOK, updated.Code)
	assert.Contains(t, updated.Body.String(), "Alice Cooper")

	t.Run("unknown id maps to 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/patients/00000000-0000-0000-0000-000000000001",
			createBody("Nobody", "n@x.com"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/patients/not-a-uuid", createBody("X", "x@x.com"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeletePatientEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeBilling{})

	created := doJSON(t, router, http.MethodPost, "/patients", createBody("Alice", "a@x.com"))
	require.Equal(t, http.StatusOK, created.Code)
	var resp patientResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&resp))

	del := doJSON(t, router, http.MethodDelete, "/patients/"+resp.ID, "")
	assert.Equal(t, http.StatusNoContent, del.Code)

	gone := doJSON(t, router, http.MethodGet, "/patients/"+resp.ID, "")
	assert.Equal(t, http.StatusNotFound, gone.Code)
}
