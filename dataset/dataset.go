package dataset

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/beewatch/hivetune/errors"
	"github.com/beewatch/hivetune/workerpool"
)

// NumFeatures is the number of annotated binary features per frame image.
const NumFeatures = 15

// FeatureColumns names the annotated features, in CSV column order.
var FeatureColumns = []string{
	"eggs",
	"larvae",
	"capped_brood",
	"uncapped_brood",
	"drone_brood",
	"honey",
	"nectar",
	"pollen",
	"queen",
	"queen_cells",
	"drone_cells",
	"varroa",
	"chalkbrood",
	"wax_moth",
	"foundation",
}

// Example pairs a frame image with its label vector. The image itself is
// referenced by path and only ever decoded by the training worker.
type Example struct {
	Path   string
	Labels []float64
}

// LoadStats counts what happened to the raw annotation rows during a load.
// Dropped rows are not errors, but their counts must be visible so the
// effective dataset size is reproducible.
type LoadStats struct {
	Rows                int
	Kept                int
	DroppedBadLabel     int
	DroppedMissingImage int
}

// annotationRow mirrors one row of the annotations CSV. All flags are read
// as strings so that a single unparseable value drops only its own row
// instead of aborting the whole unmarshal.
type annotationRow struct {
	Filename    string `csv:"filename"`
	Eggs        string `csv:"eggs"`
	Larvae      string `csv:"larvae"`
	CappedBrood string `csv:"capped_brood"`
	Uncapped    string `csv:"uncapped_brood"`
	DroneBrood  string `csv:"drone_brood"`
	Honey       string `csv:"honey"`
	Nectar      string `csv:"nectar"`
	Pollen      string `csv:"pollen"`
	Queen       string `csv:"queen"`
	QueenCells  string `csv:"queen_cells"`
	DroneCells  string `csv:"drone_cells"`
	Varroa      string `csv:"varroa"`
	Chalkbrood  string `csv:"chalkbrood"`
	WaxMoth     string `csv:"wax_moth"`
	Foundation  string `csv:"foundation"`
}

func (r annotationRow) flags() []string {
	return []string{
		r.Eggs, r.Larvae, r.CappedBrood, r.Uncapped, r.DroneBrood,
		r.Honey, r.Nectar, r.Pollen, r.Queen, r.QueenCells,
		r.DroneCells, r.Varroa, r.Chalkbrood, r.WaxMoth, r.Foundation,
	}
}

// labels parses the 15 feature flags. Any flag that fails to parse as a
// number invalidates the whole row.
func (r annotationRow) labels() ([]float64, error) {
	flags := r.flags()
	labels := make([]float64, 0, len(flags))
	for i, f := range flags {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad value for %s", FeatureColumns[i])
		}
		labels = append(labels, v)
	}
	return labels, nil
}

// Load reads the annotations CSV and pairs each kept row with its image
// under imagesDir. Rows with unparseable flags or missing image files are
// dropped and counted. numGo bounds the workers used to stat image files.
func Load(csvPath, imagesDir string, numGo int) ([]Example, LoadStats, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, LoadStats{}, errors.Wrapf(err, "unable to open annotations")
	}
	defer f.Close()

	var rows []annotationRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, LoadStats{}, errors.Wrapf(err, "unable to parse annotations %s", csvPath)
	}

	stats := LoadStats{Rows: len(rows)}

	var candidates []Example
	for _, row := range rows {
		labels, err := row.labels()
		if err != nil {
			stats.DroppedBadLabel++
			continue
		}
		candidates = append(candidates, Example{
			Path:   filepath.Join(imagesDir, row.Filename),
			Labels: labels,
		})
	}

	missing := missingImages(candidates, numGo)

	examples := make([]Example, 0, len(candidates))
	for _, c := range candidates {
		if missing[c.Path] {
			stats.DroppedMissingImage++
			continue
		}
		examples = append(examples, c)
	}
	stats.Kept = len(examples)

	log.Printf("loaded %d/%d annotation rows (%d bad labels, %d missing images)",
		stats.Kept, stats.Rows, stats.DroppedBadLabel, stats.DroppedMissingImage)

	return examples, stats, nil
}

func missingImages(candidates []Example, numGo int) map[string]bool {
	var m sync.Mutex
	missing := make(map[string]bool)

	var jobs []workerpool.Job
	for _, c := range candidates {
		path := c.Path
		jobs = append(jobs, workerpool.Job(func() error {
			if _, err := os.Stat(path); err != nil {
				m.Lock()
				missing[path] = true
				m.Unlock()
			}
			return nil
		}))
	}

	pool := workerpool.New(numGo)
	pool.AddBlocking(jobs)
	if err := pool.Wait(); err != nil {
		log.Println(err)
	}
	pool.Stop()

	return missing
}
