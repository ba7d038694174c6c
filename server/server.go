// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes validation and the profile form over HTTP.
package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mariolabs/geoprofile/profile"
	"github.com/mariolabs/geoprofile/spatial"
	"github.com/mariolabs/geoprofile/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Headers set by the authenticating proxy in front of the server.
const (
	HeaderEmail    = "X-Forwarded-Email"
	HeaderUser     = "X-Forwarded-User"
	HeaderUsername = "X-Forwarded-Preferred-Username"
)

const identityKey = "identity"

type Server struct {
	service   *profile.Service
	validator *validation.Validator
	resolver  validation.AddressResolver
	gatherer  prometheus.Gatherer
}

// NewServer creates a Server. gatherer backs /metrics; when nil the
// default registry is used.
func NewServer(
	service *profile.Service,
	validator *validation.Validator,
	resolver validation.AddressResolver,
	gatherer prometheus.Gatherer,
) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Server{
		service:   service,
		validator: validator,
		resolver:  resolver,
		gatherer:  gatherer,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.POST("/validate", s.validate)
	api.GET("/geocode", s.geocode)

	authed := api.Group("", requireIdentity)
	authed.GET("/profile", s.getProfile)
	authed.PUT("/profile", s.putProfile)

	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("Listening on http://%s", addr)

	return s.Router().Run(addr)
}

// identityFromHeaders reads the identity asserted by the proxy. The user
// header doubles as the email when it looks like one.
func identityFromHeaders(h http.Header) profile.Identity {
	email := strings.TrimSpace(h.Get(HeaderEmail))
	user := strings.TrimSpace(h.Get(HeaderUser))

	if email == "" && strings.Contains(user, "@") {
		email = user
	}

	name := strings.TrimSpace(h.Get(HeaderUsername))
	if name == "" && !strings.Contains(user, "@") {
		name = user
	}

	return profile.Identity{Email: email, Name: name}
}

func requireIdentity(ctx *gin.Context) {
	identity := identityFromHeaders(ctx.Request.Header)
	if identity.Email == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})

		return
	}

	ctx.Set(identityKey, identity)
	ctx.Next()
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func reportBody(report validation.Report) gin.H {
	return gin.H{
		"valid":  report.Valid(),
		"errors": report.Messages(),
		"kinds":  report.Kinds(),
	}
}

func (s *Server) validate(ctx *gin.Context) {
	var in validation.Input
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	report := s.validator.Validate(ctx.Request.Context(), in)
	ctx.JSON(http.StatusOK, reportBody(report))
}

func (s *Server) getProfile(ctx *gin.Context) {
	identity := ctx.MustGet(identityKey).(profile.Identity)

	form, err := s.service.Load(identity)
	if err != nil {
		log.Printf("Error loading profile for %s: %v", identity.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})

		return
	}

	ctx.JSON(http.StatusOK, form)
}

func (s *Server) putProfile(ctx *gin.Context) {
	identity := ctx.MustGet(identityKey).(profile.Identity)

	var form profile.Form
	if err := ctx.ShouldBindJSON(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	report, p, err := s.service.Submit(ctx.Request.Context(), identity, form)
	if errors.Is(err, profile.ErrNoIdentity) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})

		return
	}

	if err != nil {
		log.Printf("Error saving profile for %s: %v", identity.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})

		return
	}

	if p == nil {
		ctx.JSON(http.StatusUnprocessableEntity, reportBody(report))

		return
	}

	ctx.JSON(http.StatusOK, p)
}

// GeocodeResponse is the answer of the debug lookup endpoint.
type GeocodeResponse struct {
	Query      string         `json:"query"`
	Found      bool           `json:"found"`
	Point      *spatial.Point `json:"point,omitempty"`
	Label      string         `json:"label,omitempty"`
	Provider   string         `json:"provider,omitempty"`
	DistanceKm float64        `json:"distance_km,omitempty"`
	Within     bool           `json:"within"`
}

func (s *Server) geocode(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})

		return
	}

	res := s.resolver.Resolve(ctx.Request.Context(), q)
	resp := GeocodeResponse{Query: q, Found: res.Found}

	if res.Found {
		point := res.Point
		resp.Point = &point
		resp.Label = res.Label
		resp.Provider = res.Provider
		resp.DistanceKm = spatial.Distance(spatial.Paris, point)
		resp.Within = resp.DistanceKm <= validation.MaxDistanceKm
	}

	ctx.JSON(http.StatusOK, resp)
}
