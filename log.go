package ballotcrypt

import (
	"github.com/privacybydesign/ballotcrypt/dlog"
	"github.com/privacybydesign/ballotcrypt/elgamal"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/zkproof"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	SetLogger(logrus.StandardLogger())
}

// SetLogger makes all packages of this module log to l.
func SetLogger(l *logrus.Logger) {
	Logger = l
	group.Logger = l
	dlog.Logger = l
	elgamal.Logger = l
	zkproof.Logger = l
}
