package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baazbike/turfbook/internal/config"
	"github.com/baazbike/turfbook/internal/directory"
)

func TestNewClientDisabled(t *testing.T) {
	client := directory.NewClient(config.DirectoryConfig{})
	assert.Nil(t, client)
}

func TestLookupEmployee(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/employees", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("email") {
		case "rahul.sharma@baazbike.com":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"emp-42","name":"Rahul Sharma","email":"rahul.sharma@baazbike.com","department":"Sales"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := directory.NewClient(config.DirectoryConfig{
		BaseURL:  server.URL,
		APIToken: "test-token",
	})
	require.NotNil(t, client)

	employee, err := client.LookupEmployee(context.Background(), "rahul.sharma@baazbike.com")
	require.NoError(t, err)
	assert.Equal(t, "Rahul Sharma", employee.Name)
	assert.Equal(t, "Sales", employee.Department)

	_, err = client.LookupEmployee(context.Background(), "nobody@baazbike.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no employee with email")
}

func TestLookupEmployeeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "directory unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := directory.NewClient(config.DirectoryConfig{BaseURL: server.URL})
	require.NotNil(t, client)

	_, err := client.LookupEmployee(context.Background(), "rahul.sharma@baazbike.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
