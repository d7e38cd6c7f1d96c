package blockchain

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "blockchain")
