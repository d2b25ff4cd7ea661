package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"io.winapps.explorerdiary/internal/journal"
	"io.winapps.explorerdiary/internal/middleware"
	createmodels "io.winapps.explorerdiary/internal/models/create_entry"
)

// CreateEntry handles creation of new journal entries. JSON bodies carry
// image-less submissions; multipart/form-data carries the same fields plus
// the image file. The upload-failure continuation of the interactive
// client becomes an up-front policy field: abort (default) keeps nothing,
// save-without-image keeps the narrative and drops the photo.
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)

	var draft journal.Draft
	var policy string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		d, p, err := draftFromMultipart(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		draft, policy = d, p
	} else {
		var req createmodels.CreateEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		draft = journal.Draft{
			Title:    req.Title,
			Story:    req.Story,
			Date:     req.Date,
			Location: req.Location,
		}
		policy = req.OnUploadFailure
	}

	decide := func(uploadErr error) journal.Decision {
		if policy == createmodels.OnUploadFailureSaveWithoutImage {
			return journal.DecisionSaveWithoutImage
		}
		return journal.DecisionDiscard
	}

	entry, err := h.submitter.Submit(c.Request.Context(), draft, identity, decide)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	message := "Adventure saved successfully!"
	if draft.Image != nil && entry.ImageURL == "" {
		message = "Adventure saved successfully (without image)!"
	}

	c.JSON(http.StatusCreated, createmodels.CreateEntryResponse{
		Entry:   *entry,
		Message: message,
	})
}

func (h *EntryHandler) respondSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, journal.ErrTitleRequired), errors.Is(err, journal.ErrStoryRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields."})
	case errors.Is(err, journal.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to save an adventure."})
	case errors.Is(err, journal.ErrAborted):
		var uploadFailed *journal.UploadFailedError
		reason := err.Error()
		if errors.As(err, &uploadFailed) {
			reason = uploadFailed.Reason.Error()
		}
		h.logWarn(c, "submission abandoned after upload failure", "reason", reason)
		c.JSON(http.StatusUnprocessableEntity, createmodels.UploadFailedResponse{
			Error:     "Image upload failed",
			Reason:    reason,
			RetryHint: "Resubmit with onUploadFailure=save-without-image to save the adventure without the image.",
		})
	default:
		h.respondStoreError(c, err)
	}
}

// draftFromMultipart reads the submission fields and optional image file
// out of a multipart form.
func draftFromMultipart(c *gin.Context) (journal.Draft, string, error) {
	draft := journal.Draft{
		Title: c.PostForm("title"),
		Story: c.PostForm("story"),
		Date:  c.PostForm("date"),
	}

	if loc := parseFormLocation(c); loc != nil {
		draft.Location = loc
	}

	header, err := c.FormFile("image")
	if err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			return journal.Draft{}, "", err
		}
		// The file is read fully during upload; gin cleans up the temp file.
		draft.Image = &journal.ImageFile{
			Name:     header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Data:     file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) && err != nil {
		return journal.Draft{}, "", err
	}

	return draft, c.PostForm("onUploadFailure"), nil
}

// parseFormLocation builds the optional location from form fields. A bad
// coordinate string is dropped rather than failing the whole submission;
// the filters already treat a coordinate-less location as no location.
func parseFormLocation(c *gin.Context) *journal.Location {
	latStr := c.PostForm("latitude")
	lngStr := c.PostForm("longitude")
	address := c.PostForm("address")
	if latStr == "" && lngStr == "" && address == "" {
		return nil
	}

	loc := &journal.Location{Address: address}
	if lat, err := strconv.ParseFloat(latStr, 64); err == nil && latStr != "" {
		loc.Latitude = &lat
	}
	if lng, err := strconv.ParseFloat(lngStr, 64); err == nil && lngStr != "" {
		loc.Longitude = &lng
	}
	return loc
}
