package rbac

import (
	"strconv"
	"sync"

	"github.com/PeterTHA/bo-resource-management/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Service is the single capability check used by the workflow.
//
//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Can(subject Subject, action Action) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// NewDefaultService wires the built-in policy table.
func NewDefaultService(logger ...*zap.Logger) (Service, error) {
	e, err := infra.NewEnforcer(DefaultPolicies())
	if err != nil {
		return nil, err
	}
	return NewService(e, logger...), nil
}

func (s *service) Can(subject Subject, action Action) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(string(subject.Role), strconv.FormatBool(subject.IsOwner), string(action))
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(subject.Role)),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", string(subject.Role)),
		zap.Bool("owner", subject.IsOwner),
		zap.String("action", string(action)),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
