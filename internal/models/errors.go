package models

import (
	"errors"
)

var ErrNoProjects = errors.New("no project found")
