package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckUpdateResponse is the body of GET /api/check-update.
type CheckUpdateResponse struct {
	HasUpdate   bool   `json:"has_update"`
	Version     string `json:"version,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}

// downloadURL builds the release artifact URL for a version and platform.
func (s *Server) downloadURL(version, platform string) string {
	if s.cfg.DownloadURLPrefix == "" {
		return ""
	}
	suffix := ".app"
	if platform == PlatformWindows {
		suffix = ".exe"
	}
	return s.cfg.DownloadURLPrefix + version + suffix
}

func (s *Server) handleCheckUpdate(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("version")
	platform := r.URL.Query().Get("platform")

	if current == "" || platform == "" {
		respondError(w, http.StatusBadRequest, "missing version or platform parameter")
		return
	}
	if !ValidPlatform(platform) {
		respondError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	latest, err := s.store.LatestActive(platform)
	if err != nil {
		s.logger.Error("failed to query latest version", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to query versions")
		return
	}
	if latest == nil {
		respondJSON(w, http.StatusOK, CheckUpdateResponse{
			HasUpdate: false,
			Message:   "no active version found",
		})
		return
	}

	if CompareVersions(latest.Version, current) <= 0 {
		respondJSON(w, http.StatusOK, CheckUpdateResponse{
			HasUpdate: false,
			Version:   current,
		})
		return
	}

	respondJSON(w, http.StatusOK, CheckUpdateResponse{
		HasUpdate:   true,
		Version:     latest.Version,
		DownloadURL: s.downloadURL(latest.Version, platform),
		Description: latest.Description,
	})
}

// createVersionRequest is the body of POST /api/versions.
type createVersionRequest struct {
	Version     string `json:"version"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform != "" && !ValidPlatform(platform) {
		respondError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	versions, err := s.store.List(platform)
	if err != nil {
		s.logger.Error("failed to list versions", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}
	if versions == nil {
		versions = []*Version{}
	}
	respondJSON(w, http.StatusOK, versions)
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Version == "" || req.Platform == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !ValidPlatform(req.Platform) {
		respondError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	v := &Version{
		Version:     req.Version,
		Platform:    req.Platform,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}
	if err := s.store.Create(v); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid version id")
		return
	}

	v, err := s.store.Get(id)
	if errors.Is(err, ErrVersionNotFound) {
		respondError(w, http.StatusNotFound, "version not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get version", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to get version")
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateVersion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid version id")
		return
	}

	var changes VersionChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if changes.Platform != nil && !ValidPlatform(*changes.Platform) {
		respondError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	v, err := s.store.Update(id, changes)
	if errors.Is(err, ErrVersionNotFound) {
		respondError(w, http.StatusNotFound, "version not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid version id")
		return
	}

	err = s.store.Delete(id)
	if errors.Is(err, ErrVersionNotFound) {
		respondError(w, http.StatusNotFound, "version not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete version", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to delete version")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
