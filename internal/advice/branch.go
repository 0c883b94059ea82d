package advice

import (
	"fmt"

	"github.com/dmitrijs2005/nudger/internal/classifier"
	"gopkg.in/yaml.v3"
)

// BacklogThreshold is the incomplete count above which the backlog branch
// applies.
const BacklogThreshold = 5

// Branch selects the family of response templates.
type Branch string

const (
	BranchOverdue     Branch = "overdue"
	BranchBacklog     Branch = "backlog"
	BranchNotStarted  Branch = "not_started"
	BranchProgressing Branch = "progressing"
)

// Branches in precedence order.
var Branches = []Branch{BranchOverdue, BranchBacklog, BranchNotStarted, BranchProgressing}

// SelectBranch applies the ordered rule overdue>0, incomplete>5,
// completed==0, otherwise progressing.
func SelectBranch(c classifier.Counts) Branch {
	switch {
	case c.Overdue > 0:
		return BranchOverdue
	case c.Incomplete > BacklogThreshold:
		return BranchBacklog
	case c.Completed == 0:
		return BranchNotStarted
	default:
		return BranchProgressing
	}
}

// UnmarshalYAML rejects unknown branch keys in the persona catalog.
func (b *Branch) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	for _, known := range Branches {
		if Branch(s) == known {
			*b = known
			return nil
		}
	}
	return fmt.Errorf("unknown branch %q", s)
}
