package graphql

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"github.com/oksasatya/go-feed-service/pkg/response"
)

type Handler struct {
	Schema graphql.Schema
}

func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{Schema: schema}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve executes a single GraphQL request. Operation errors are reported in
// the standard errors array with the HTTP-equivalent code in extensions, so
// the transport status stays 200 for anything the executor could run.
func (h *Handler) Serve(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request.Context(),
	})
	c.JSON(http.StatusOK, result)
}
