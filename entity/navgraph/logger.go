package navgraph

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "navgraph")
