// formserver exposes the mutation engine over HTTP: upload a session's worth
// of field values in stages, then generate the filled PDF. It has no
// business logic of its own -- every route is a thin adapter from JSON
// requests onto schema.Registry, session.Store, and fillengine.Fill.
package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kilroy-fr/pdfforms/fillengine"
	"github.com/kilroy-fr/pdfforms/schema"
	"github.com/kilroy-fr/pdfforms/session"
)

// server bundles the dependencies every handler needs.
type server struct {
	registry    *schema.Registry
	store       session.Store
	templateDir string
}

func main() {
	templateDir := os.Getenv("PDFFORMS_TEMPLATE_DIR")
	if templateDir == "" {
		templateDir = "."
	}

	srv := &server{
		registry:    schema.NewRegistry(),
		store:       session.NewMemoryStore(),
		templateDir: templateDir,
	}

	router := gin.Default()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/forms/:formID/sessions", srv.handleCreateSession)
		v1.POST("/forms/:formID/sessions/:sessionID/fields", srv.handleSetFields)
		v1.POST("/forms/:formID/sessions/:sessionID/generate", srv.handleGenerate)
	}
	router.GET("/debug/thumbnail/:formID", srv.handleThumbnail)

	router.Run()
}

// handleCreateSession creates a new, empty session for the named form.
func (s *server) handleCreateSession(c *gin.Context) {
	formID := c.Param("formID")
	if _, ok := s.registry.Get(formID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown form ID: " + formID})
		return
	}
	sess, err := s.store.Create(formID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionID": sess.ID, "formID": sess.FormID})
}

// fieldUpdate is the wire shape of one field value in a POST .../fields body.
type fieldUpdate struct {
	FieldName string `json:"fieldName" binding:"required"`
	Value     string `json:"value"`
}

// handleSetFields merges a batch of field values into an existing session,
// overwriting any value already present for the same field name.
func (s *server) handleSetFields(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	var updates []fieldUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	byName := make(map[string]int, len(sess.Instances))
	for i, fi := range sess.Instances {
		byName[fi.FieldName] = i
	}
	for _, u := range updates {
		status := schema.StatusFilled
		if u.Value == "" {
			status = schema.StatusUnfilled
		}
		if i, ok := byName[u.FieldName]; ok {
			sess.Instances[i].Value = u.Value
			sess.Instances[i].Status = status
			continue
		}
		byName[u.FieldName] = len(sess.Instances)
		sess.Instances = append(sess.Instances, schema.FieldInstance{
			FieldName: u.FieldName, Value: u.Value, Status: status,
		})
	}
	if err := s.store.Put(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionID": sess.ID, "fieldCount": len(sess.Instances)})
}

// handleGenerate fills the session's template and streams the resulting PDF
// back as the response body, mirroring how the reference generation
// endpoint in this corpus returns its output: a Content-Type header plus a
// raw byte body, not a JSON envelope.
func (s *server) handleGenerate(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	def, ok := s.registry.Get(sess.FormID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown form ID: " + sess.FormID})
		return
	}

	templatePath := filepath.Join(s.templateDir, def.TemplateFilename)
	outputDir := os.Getenv("PDFFORMS_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	outputPath := filepath.Join(outputDir, sess.ID+".pdf")

	plan := fillengine.Plan{
		FormDef:         def,
		Instances:       sess.Instances,
		BurnInWhitelist: schema.BurnInWhitelist[def.FormID],
	}
	result, err := fillengine.Fill(c.Request.Context(), templatePath, outputPath, plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(outputPath)

	data, err := os.ReadFile(outputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("X-Fields-Filled", strconv.Itoa(result.FieldsFilled))
	c.Header("X-Fields-Skipped", strconv.Itoa(result.Skipped))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *server) lookupSession(c *gin.Context) (*session.Session, bool) {
	sess, err := s.store.Get(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session ID"})
		return nil, false
	}
	if sess.FormID != c.Param("formID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session does not belong to this form"})
		return nil, false
	}
	return sess, true
}
