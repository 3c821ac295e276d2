package generator

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// DefaultUserCheck is emitted when no user check script exists for a module.
const DefaultUserCheck = `class UserCheck(object):
    def __init__(self, params, infos):
        #  user configuration get from AnsibleModule().params
        self.params = params
        # leaf infos from yang files
        self.infos = infos

    # user defined check method need startswith "check_"
    # return 0 if not pass check logic, else 1
    def check_leaf_restrict(self):
        """
            if leaf_1 configured, leaf2 shouble be configured
            and range shouble be in [10, 20]
        """
        return 1
`

var (
	userCheckClass = regexp.MustCompile(`^class\s+UserCheck\s*\(\s*object\s*\)\s*:`)
	continued      = regexp.MustCompile(`\\\s*$`)
)

// UserCheck holds the parts of a user check script carried into a
// generated module.
type UserCheck struct {
	// Imports are the script's import statements, continuation lines
	// included.
	Imports string
	// Class is the UserCheck class definition.
	Class string
}

// ReadUserCheck extracts the import statements and the UserCheck class of
// the Python script at path. An empty path or a missing script yields the
// default class.
func ReadUserCheck(path string) (UserCheck, error) {
	if path == "" {
		return UserCheck{Class: DefaultUserCheck}, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		glog.V(1).Infof("%s: no user check script, using default", path)
		return UserCheck{Class: DefaultUserCheck}, nil
	}
	if err != nil {
		return UserCheck{}, errors.WithStack(err)
	}
	defer f.Close()

	glog.V(1).Infof("merging user check definitions from %s", path)
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return UserCheck{}, errors.Wrapf(err, "reading %s", path)
	}

	uc := UserCheck{
		Imports: strings.Join(imports(lines), "\n"),
		Class:   userCheckClassDef(lines),
	}
	if uc.Class == "" {
		glog.Warningf("%s: no UserCheck class, using default", path)
		uc.Class = DefaultUserCheck
	}
	return uc, nil
}

func imports(lines []string) []string {
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, "import ") && !strings.HasPrefix(line, "from ") {
			continue
		}
		stmt := line
		for continued.MatchString(line) && i+1 < len(lines) {
			i++
			line = lines[i]
			stmt += "\n" + line
		}
		out = append(out, strings.TrimRight(stmt, " \t"))
	}
	return out
}

// userCheckClassDef returns the class header line and every following
// line that is blank or indented.
func userCheckClassDef(lines []string) string {
	var b strings.Builder
	in := false
	for _, line := range lines {
		switch {
		case !in && userCheckClass.MatchString(line):
			in = true
		case in && line != "" && line[0] != ' ' && line[0] != '\t':
			return strings.TrimRight(b.String(), "\n") + "\n"
		case !in:
			continue
		}
		b.WriteString(strings.TrimRight(line, " \t"))
		b.WriteByte('\n')
	}
	if !in {
		return ""
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
