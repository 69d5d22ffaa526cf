// Package report reshapes a flat entry listing into the chart and table
// datasets the Results and Today's Activity views render. Everything here is
// pure: the same input always produces the same output.
package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/store"
)

// defaultColor is used for any label missing from the configured palette.
const defaultColor = "#000000"

// recentCommentsMax caps the comments table at what the dashboard renders.
const recentCommentsMax = 40

// weekdayLabels are the bar-chart labels, Monday first.
var weekdayLabels = []string{"Måndag", "Tisdag", "Onsdag", "Torsdag", "Fredag", "Lördag", "Söndag"}

// Options carries the presentation configuration for a report build.
type Options struct {
	// GroupByYear switches the hour/weekday/week charts from a single
	// trimmed series to one dense series per year.
	GroupByYear bool
	// Colors maps chart labels (types, locations, categories, years) to
	// hex colors.
	Colors map[string]string
	// ColorOrder is the ordered color list the doughnut slices sort by.
	ColorOrder []string
}

// Dataset is one chart series.
type Dataset struct {
	Label  string   `json:"label,omitempty"`
	Data   []int    `json:"data"`
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

// Chart is a renderable bar or doughnut dataset collection.
type Chart struct {
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// QuestionGroup is one row of the question/category table.
type QuestionGroup struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Count    int    `json:"count"`
	Share    string `json:"share,omitempty"`
}

// CommentRow is one row of the recent-comments table.
type CommentRow struct {
	Comment  string `json:"comment"`
	Question string `json:"question"`
	Location string `json:"location"`
	DateTime string `json:"date_time"`
}

// Results is the full Results view payload.
type Results struct {
	Charts    []Chart         `json:"charts"`
	Questions []QuestionGroup `json:"questions"`
	Total     int             `json:"total"`
	Comments  []CommentRow    `json:"comments"`
}

// Today is the Today's Activity payload: entries recorded today, the five
// most answered question/category groups and an hour-of-day bar chart.
type Today struct {
	Total int             `json:"total"`
	Top   []QuestionGroup `json:"top"`
	Chart *Chart          `json:"chart,omitempty"`
}

// LabelCount is a counted label, in first-seen order.
type LabelCount struct {
	Label string
	Count int
}

// CountBy counts rows per selector value, preserving first-seen order.
func CountBy(rows []store.EntryRow, sel func(store.EntryRow) string) []LabelCount {
	index := make(map[string]int)
	var pairs []LabelCount
	for _, r := range rows {
		key := sel(r)
		if i, ok := index[key]; ok {
			pairs[i].Count++
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, LabelCount{Label: key, Count: 1})
	}
	return pairs
}

// GroupQuestions groups rows by the question×category compound key,
// preserving first-seen order.
func GroupQuestions(rows []store.EntryRow) []QuestionGroup {
	index := make(map[string]int)
	var groups []QuestionGroup
	for _, r := range rows {
		key := r.Question + "\x00" + r.Category
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, QuestionGroup{Question: r.Question, Category: r.Category, Count: 1})
	}
	return groups
}

// Percentage formats part/whole as a percentage with the given precision,
// using a comma decimal separator: Percentage(1, 3, 1) == "33,3".
// A zero whole yields "NaN", never a panic.
func Percentage(part, whole, precision int) string {
	v := float64(part) * 100 / float64(whole)
	s := strconv.FormatFloat(v, 'f', precision, 64)
	return strings.Replace(s, ".", ",", 1)
}

// TrimSeries removes leading and trailing all-zero buckets from both ends,
// shifting labels to match. Interior zeros are kept:
// [0,0,3,0,5,0,0] trims to [3,0,5].
func TrimSeries(values []int, labels []string) ([]int, []string) {
	start, end := 0, len(values)
	for start < end && values[start] == 0 {
		start++
	}
	for end > start && values[end-1] == 0 {
		end--
	}
	return values[start:end], labels[start:end]
}

// BuildResults shapes the Results view: hour/weekday/week/year bar charts,
// type/location/category doughnuts, the question table and recent comments.
func BuildResults(rows []store.EntryRow, opts Options) Results {
	res := Results{
		Charts:    make([]Chart, 0, 7),
		Questions: make([]QuestionGroup, 0),
		Comments:  make([]CommentRow, 0),
		Total:     len(rows),
	}

	res.Charts = append(res.Charts,
		dimensionChart("Timma", rows, func(r store.EntryRow) int { return r.Hour }, 24, hourLabels(), opts),
		dimensionChart("Veckodag", rows, func(r store.EntryRow) int { return r.Weekday }, 7, append([]string(nil), weekdayLabels...), opts),
		weekChart(rows, opts),
		yearChart(rows),
		doughnutChart("Typ", rows, func(r store.EntryRow) string { return r.Type }, opts),
		doughnutChart("Plats", rows, func(r store.EntryRow) string { return r.Location }, opts),
		doughnutChart("Kategori", rows, func(r store.EntryRow) string { return r.Category }, opts),
	)

	groups := GroupQuestions(rows)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	for i := range groups {
		groups[i].Share = Percentage(groups[i].Count, len(rows), 1)
	}
	res.Questions = groups

	res.Comments = recentComments(rows)
	return res
}

// BuildToday shapes the Today's Activity view from entries whose CreatedAt
// falls within now's local calendar day.
func BuildToday(rows []store.EntryRow, now time.Time) Today {
	now = now.In(time.Local)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	var today []store.EntryRow
	for _, r := range rows {
		c := r.CreatedAt.Time
		if !c.Before(start) && c.Before(end) {
			today = append(today, r)
		}
	}

	out := Today{Total: len(today), Top: make([]QuestionGroup, 0, 5)}
	if len(today) == 0 {
		return out
	}

	groups := GroupQuestions(today)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if len(groups) > 5 {
		groups = groups[:5]
	}
	out.Top = groups

	chart := dimensionChart("Dagens aktivitet per timme", today,
		func(r store.EntryRow) int { return r.Hour }, 24, hourLabels(), Options{})
	out.Chart = &chart
	return out
}

// dimensionChart builds a bar chart over a fixed bucket domain. Without year
// grouping the single series is end-trimmed; with it, one dense series per
// year is emitted and nothing is trimmed.
func dimensionChart(title string, rows []store.EntryRow, sel func(store.EntryRow) int, domain int, labels []string, opts Options) Chart {
	chart := Chart{Title: title, Type: "bar", Labels: labels}
	if opts.GroupByYear {
		chart.Datasets = yearDatasets(rows, sel, opts)
		return chart
	}

	values := make([]int, domain)
	for _, r := range rows {
		key := sel(r)
		if key >= 0 && key < domain {
			values[key]++
		}
	}
	values, chart.Labels = TrimSeries(values, labels)
	chart.Datasets = []Dataset{{Data: values}}
	return chart
}

// weekChart is the 53-bucket ISO week chart; week n lands in bucket n-1.
func weekChart(rows []store.EntryRow, opts Options) Chart {
	labels := make([]string, 53)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	if opts.GroupByYear {
		return Chart{
			Title:    "Vecka",
			Type:     "bar",
			Labels:   labels,
			Datasets: yearDatasets(rows, func(r store.EntryRow) int { return r.Week }, opts),
		}
	}

	values := make([]int, 53)
	for _, r := range rows {
		if r.Week >= 1 && r.Week <= 53 {
			values[r.Week-1]++
		}
	}
	values, labels = TrimSeries(values, labels)
	return Chart{Title: "Vecka", Type: "bar", Labels: labels, Datasets: []Dataset{{Data: values}}}
}

func yearChart(rows []store.EntryRow) Chart {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.Year]++
	}
	years := sortedKeys(counts)

	labels := make([]string, 0, len(years))
	values := make([]int, 0, len(years))
	for _, y := range years {
		labels = append(labels, strconv.Itoa(y))
		values = append(values, counts[y])
	}
	return Chart{Title: "År", Type: "bar", Labels: labels, Datasets: []Dataset{{Data: values}}}
}

// yearDatasets partitions rows by year and emits one dense series per year,
// sized to the highest bucket key seen plus one, colored from the palette.
func yearDatasets(rows []store.EntryRow, sel func(store.EntryRow) int, opts Options) []Dataset {
	byYear := make(map[int]map[int]int)
	for _, r := range rows {
		counts, ok := byYear[r.Year]
		if !ok {
			counts = make(map[int]int)
			byYear[r.Year] = counts
		}
		counts[sel(r)]++
	}

	years := sortedKeys(byYear)
	datasets := make([]Dataset, 0, len(years))
	for _, y := range years {
		counts := byYear[y]
		max := 0
		for key := range counts {
			if key > max {
				max = key
			}
		}
		data := make([]int, max+1)
		for key, n := range counts {
			if key >= 0 {
				data[key] = n
			}
		}
		label := strconv.Itoa(y)
		datasets = append(datasets, Dataset{
			Label: label,
			Data:  data,
			Color: colorFor(label, opts.Colors),
		})
	}
	return datasets
}

// doughnutChart counts rows per label and sorts the slices by the configured
// color order. Labels whose color is absent from the order get index -1 and
// therefore sort first.
func doughnutChart(title string, rows []store.EntryRow, sel func(store.EntryRow) string, opts Options) Chart {
	pairs := CountBy(rows, sel)

	orderIndex := func(label string) int {
		color := colorFor(label, opts.Colors)
		for i, c := range opts.ColorOrder {
			if c == color {
				return i
			}
		}
		return -1
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return orderIndex(pairs[i].Label) < orderIndex(pairs[j].Label)
	})

	chart := Chart{Title: title, Type: "doughnut", Labels: make([]string, 0, len(pairs))}
	ds := Dataset{Data: make([]int, 0, len(pairs)), Colors: make([]string, 0, len(pairs))}
	for _, p := range pairs {
		chart.Labels = append(chart.Labels, p.Label)
		ds.Data = append(ds.Data, p.Count)
		ds.Colors = append(ds.Colors, colorFor(p.Label, opts.Colors))
	}
	chart.Datasets = []Dataset{ds}
	return chart
}

func recentComments(rows []store.EntryRow) []CommentRow {
	var withComment []store.EntryRow
	for _, r := range rows {
		if r.Comment != nil && *r.Comment != "" {
			withComment = append(withComment, r)
		}
	}
	sort.SliceStable(withComment, func(i, j int) bool {
		return withComment[i].QuestionDate.Time.After(withComment[j].QuestionDate.Time)
	})
	if len(withComment) > recentCommentsMax {
		withComment = withComment[:recentCommentsMax]
	}

	out := make([]CommentRow, 0, len(withComment))
	for _, r := range withComment {
		out = append(out, CommentRow{
			Comment:  *r.Comment,
			Question: r.Question,
			Location: r.Location,
			DateTime: r.QuestionDate.Format("2006-01-02 15:04"),
		})
	}
	return out
}

func colorFor(label string, colors map[string]string) string {
	if c, ok := colors[label]; ok {
		return c
	}
	return defaultColor
}

func hourLabels() []string {
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

func sortedKeys[M ~map[int]V, V any](m M) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
