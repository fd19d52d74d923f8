package ecosim

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "ecosim")
