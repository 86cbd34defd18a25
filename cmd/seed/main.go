package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/internal/store/drivers/sqlite"
	"github.com/opentransit/stationwatch/pkg/idx"
)

// defaultSourceURL is the MTA subway stations dataset on the NY open data
// portal.
const defaultSourceURL = "https://data.ny.gov/resource/39hk-dx4f.json?$limit=1000"

// stationRecord mirrors the dataset's row shape. Coordinates arrive as
// strings; georeference is a GeoJSON point fallback for rows missing them.
type stationRecord struct {
	StopName      string `json:"stop_name"`
	GTFSLatitude  string `json:"gtfs_latitude"`
	GTFSLongitude string `json:"gtfs_longitude"`
	DaytimeRoutes string `json:"daytime_routes"`
	Georeference  *struct {
		Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
	} `json:"georeference"`
}

func main() {
	var (
		dbFile = flag.String("db", "stationwatch.db", "path to the SQLite database file")
		source = flag.String("source", defaultSourceURL, "station dataset URL")
		force  = flag.Bool("force", false, "seed even if stations already exist")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", *dbFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	if !*force {
		empty, err := db.Stations().IsEmpty(ctx)
		if err != nil {
			log.Fatalf("failed to check stations: %v", err)
		}
		if !empty {
			log.Println("stations already seeded, nothing to do (use -force to reseed)")
			return
		}
	}

	records, err := fetchStations(ctx, *source)
	if err != nil {
		log.Fatalf("failed to fetch station dataset: %v", err)
	}

	var inserted, skipped int
	for _, rec := range records {
		station, ok := toStation(rec)
		if !ok {
			skipped++
			continue
		}
		if err := db.Stations().CreateStation(ctx, station); err != nil {
			log.Fatalf("failed to insert station %q: %v", station.Name, err)
		}
		inserted++
	}

	log.Printf("seeded %d stations (%d rows skipped)", inserted, skipped)
}

func fetchStations(ctx context.Context, url string) ([]stationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset returned status %d", resp.StatusCode)
	}

	var records []stationRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return records, nil
}

// toStation converts a dataset row, reporting ok=false for rows missing a
// name or usable coordinates.
func toStation(rec stationRecord) (domain.Station, bool) {
	name := strings.TrimSpace(rec.StopName)
	if name == "" {
		return domain.Station{}, false
	}

	lat, latErr := strconv.ParseFloat(rec.GTFSLatitude, 64)
	lon, lonErr := strconv.ParseFloat(rec.GTFSLongitude, 64)
	if latErr != nil || lonErr != nil {
		// Fall back to the GeoJSON point, which stores [longitude, latitude].
		if rec.Georeference == nil || len(rec.Georeference.Coordinates) != 2 {
			return domain.Station{}, false
		}
		lon = rec.Georeference.Coordinates[0]
		lat = rec.Georeference.Coordinates[1]
	}

	return domain.Station{
		ID:        idx.New().String(),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Lines:     strings.Fields(rec.DaytimeRoutes),
	}, true
}
