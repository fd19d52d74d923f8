package observer

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "observer")
