package citizen

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "citizen")
