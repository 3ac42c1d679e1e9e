package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>student-management-api — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Hand-written OpenAPI document for the student CRUD surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "student-management-api", "version": "v1.0.0" },
  "paths": {
    "/students": {
      "get": { "summary": "Get all students", "responses": { "200": { "description": "list of students" } } },
      "post": {
        "summary": "Add new student",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","age"],"properties":{"name":{"type":"string"},"age":{"type":"integer","minimum":0,"maximum":150}}}}}},
        "responses": { "201": { "description": "created student" }, "400": { "description": "validation error" } }
      }
    },
    "/students/{id}": {
      "get": { "summary": "Get student by ID", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "student" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete student by ID", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/students/name/{name}": {
      "get": { "summary": "Search students by name (case-insensitive substring)", "parameters": [{"name":"name","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "matching students" }, "404": { "description": "no matches" } } }
    },
    "/": { "get": { "summary": "Service info and endpoint map", "responses": { "200": { "description": "status" } } } },
    "/health": { "get": { "summary": "Liveness check (always 200)", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition" } } } }
  }
}`
