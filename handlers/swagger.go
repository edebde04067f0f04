package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portfolio-api - Swagger</title>
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

// Admin routes expect the jwt cookie or an Authorization: Bearer header.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "portfolio-api", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "cookieAuth": { "type": "apiKey", "in": "cookie", "name": "jwt" } },
    "schemas": {
      "Message": { "type": "object", "properties": { "message": { "type": "string" } } }
    }
  },
  "paths": {
    "/api/auth/seed": {
      "post": { "summary": "Create the admin account (once)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "201": { "description": "admin created, cookie set" }, "400": { "description": "Admin already exists" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Log in", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "cookie set" }, "401": { "description": "Invalid credentials" }, "429": { "description": "Rate limit exceeded" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Clear cookie and revoke token", "responses": { "200": { "description": "Logged out" } } }
    },
    "/api/cv": {
      "get": { "summary": "Read the CV", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "CV document" }, "404": { "description": "CV not found" } } },
      "post": { "summary": "Create or replace the CV (JSON or multipart with profilePic)", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "saved CV" }, "500": { "description": "upload failure" } } }
    },
    "/api/cv/download": { "get": { "summary": "Download the CV as PDF", "responses": { "200": { "description": "application/pdf attachment" }, "404": { "description": "CV not found" }, "500": { "description": "Failed to generate PDF" } } } },
    "/api/cv/preview": { "get": { "summary": "CV as HTML", "responses": { "200": { "description": "text/html" }, "404": { "description": "CV not found" } } } },
    "/api/cv/renders": { "get": { "summary": "Recent PDF renders", "security": [{"cookieAuth": []}], "parameters": [{"name":"limit","in":"query","schema":{"type":"integer"}}], "responses": { "200": { "description": "render records" } } } },
    "/api/categories": {
      "get": { "summary": "List categories", "responses": { "200": { "description": "categories" } } },
      "post": { "summary": "Create category", "security": [{"cookieAuth": []}], "responses": { "201": { "description": "created" }, "400": { "description": "Category already exists" } } }
    },
    "/api/categories/{id}": {
      "put": { "summary": "Rename category", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "updated" }, "404": { "description": "Category not found" } } },
      "delete": { "summary": "Delete category", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/works": {
      "get": { "summary": "List works", "responses": { "200": { "description": "works with category" } } },
      "post": { "summary": "Create work (multipart, file required)", "security": [{"cookieAuth": []}], "responses": { "201": { "description": "created" }, "400": { "description": "validation error" } } }
    },
    "/api/works/{id}": {
      "get": { "summary": "Get work", "responses": { "200": { "description": "work" }, "404": { "description": "Work not found" } } },
      "put": { "summary": "Update work", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete work and its image", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/skills": {
      "get": { "summary": "List skills, newest first", "responses": { "200": { "description": "skills" } } },
      "post": { "summary": "Create skill", "security": [{"cookieAuth": []}], "responses": { "201": { "description": "created" }, "400": { "description": "Skill already exists" } } }
    },
    "/api/skills/{id}": {
      "get": { "summary": "Get skill", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "skill" }, "404": { "description": "Skill not found" } } },
      "put": { "summary": "Update skill", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete skill", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/skills/{id}/increase": { "patch": { "summary": "Raise level by amount (default 1)", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "skill" } } } },
    "/api/skills/{id}/decrease": { "patch": { "summary": "Lower level by amount (default 1)", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "skill" } } } },
    "/api/reviews": {
      "get": { "summary": "List reviews, newest first", "responses": { "200": { "description": "reviews" } } },
      "post": { "summary": "Create review (optional image)", "security": [{"cookieAuth": []}], "responses": { "201": { "description": "created" } } }
    },
    "/api/reviews/{id}": {
      "put": { "summary": "Update review", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete review", "security": [{"cookieAuth": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/contact": {
      "post": { "summary": "Send a contact message (multipart, optional image)", "responses": { "200": { "description": "Your message has been sent" }, "500": { "description": "upload or mail failure" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
