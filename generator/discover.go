package generator

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const exampleSuffix = "_example.xml"

// Job is one full instance document and the examples that illustrate it.
type Job struct {
	// Name is the generated module name, the base name of the directory
	// holding Full.
	Name string `json:"name"`
	// Group is the first directory below the XML root containing Full, or
	// empty when Full lives in a direct child of the root.
	Group string `json:"group,omitempty"`
	// Full is the path of the full instance document.
	Full string `json:"full"`
	// Examples are the example documents, naturally ordered.
	Examples []string `json:"examples,omitempty"`
}

// Discover walks xmlDir and returns one job per full instance document.
// Every *.xml file that is not an *_example.xml file is a full instance.
// A directory holding a single XML file uses it as its own example.
func Discover(xmlDir string) ([]Job, error) {
	byDir := map[string][]string{}
	err := filepath.WalkDir(xmlDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".xml") {
			return nil
		}
		dir := filepath.Dir(path)
		byDir[dir] = append(byDir[dir], path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", xmlDir)
	}

	var jobs []Job
	for dir, files := range byDir {
		sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
		examples, fulls := lo.FilterReject(files, func(f string, _ int) bool {
			return strings.HasSuffix(f, exampleSuffix)
		})
		if len(files) == 1 {
			examples = files
		}
		for _, full := range fulls {
			jobs = append(jobs, Job{
				Name:     filepath.Base(dir),
				Group:    group(xmlDir, dir),
				Full:     full,
				Examples: examples,
			})
		}
		if len(fulls) == 0 {
			glog.Warningf("%s: examples without a full instance document", dir)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return natural.Less(jobs[i].Full, jobs[j].Full) })
	return jobs, nil
}

// group returns the first path element of dir below root when dir is at
// least two levels deep.
func group(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

var xmlnsAttr = regexp.MustCompile(`xmlns(?::[\w.-]+)?\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// RequiredNamespaces returns the namespace URIs declared in the full
// instance documents of jobs, sorted and deduplicated. Unreadable
// documents are skipped here and reported when generated.
func RequiredNamespaces(jobs []Job) []string {
	var out []string
	for _, j := range jobs {
		data, err := os.ReadFile(j.Full)
		if err != nil {
			glog.Warningf("%s: %v", j.Full, err)
			continue
		}
		found := scanNamespaces(string(data))
		if len(found) == 0 {
			glog.Warningf("%s: no xmlns declarations", j.Full)
		}
		out = append(out, found...)
	}
	out = lo.Uniq(out)
	sort.Strings(out)
	return out
}

func scanNamespaces(text string) []string {
	var out []string
	for _, m := range xmlnsAttr.FindAllStringSubmatch(text, -1) {
		uri := m[1] + m[2]
		if uri != "" {
			out = append(out, uri)
		}
	}
	return out
}
