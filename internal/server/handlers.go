package server

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rshade/biogas-balance/internal/export"
	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/scenario"
	"github.com/rshade/biogas-balance/internal/water"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime_sec": int(time.Since(s.started).Seconds()),
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listFeedstocks(c echo.Context) error {
	return c.JSON(http.StatusOK, feedstock.Presets())
}

type humidityResponse struct {
	TempC       float64 `json:"temp_c"`
	GramsPerNm3 float64 `json:"g_per_nm3"`
}

// humidity returns the saturation water content at ?temp_c=, or the whole
// table when the parameter is absent.
func (s *Server) humidity(c echo.Context) error {
	raw := c.QueryParam("temp_c")
	if raw == "" {
		return c.JSON(http.StatusOK, water.SaturationHumidityTable)
	}
	temp, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("temp_c must be a finite number, got %q", raw))
	}
	return c.JSON(http.StatusOK, humidityResponse{
		TempC:       temp,
		GramsPerNm3: water.SaturationWaterContent(temp),
	})
}

func bindDocument(c echo.Context) (*scenario.Document, error) {
	var doc scenario.Document
	if err := c.Bind(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Server) yield(c echo.Context) error {
	doc, err := bindDocument(c)
	if err != nil {
		return err
	}
	report, err := s.run(doc, scenario.StageYield, "yield")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report.Yield)
}

// waterResponse adds the flow diagram edges to the ledger.
type waterResponse struct {
	*water.Result
	Links []water.Link `json:"links"`
}

func (s *Server) waterBalance(c echo.Context) error {
	doc, err := bindDocument(c)
	if err != nil {
		return err
	}
	report, err := s.run(doc, scenario.StageWater, "water")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, waterResponse{Result: report.Water, Links: report.Water.Links()})
}

// runScenario runs both stages. With ?format= the report is returned as an
// export attachment instead of JSON.
func (s *Server) runScenario(c echo.Context) error {
	format := export.FormatJSON
	if raw := c.QueryParam("format"); raw != "" {
		f, err := export.ParseFormat(raw)
		if err != nil {
			return err
		}
		format = f
	}

	// An empty body runs the example plant.
	doc := scenario.Default()
	if c.Request().ContentLength != 0 {
		bound, err := bindDocument(c)
		if err != nil {
			return err
		}
		doc = bound
	}
	report, err := s.run(doc, scenario.StageAll, "scenario")
	if err != nil {
		return err
	}

	if c.QueryParam("format") == "" {
		return c.JSON(http.StatusOK, report)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.FromReport(report), s.cfg.Export); err != nil {
		return fmt.Errorf("rendering %s export: %w", format, err)
	}
	zerolog.Ctx(c.Request().Context()).Debug().
		Str("format", string(format)).
		Int("bytes", buf.Len()).
		Msg("rendered scenario export")

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", attachmentName(report.Name, format)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// attachmentName derives a file name from the scenario name.
func attachmentName(name string, f export.Format) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
	if base == "" {
		base = "biogas-balance"
	}
	return base + "." + f.Extension()
}
