package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
)

// stubTx подменяет pgx.Tx: фиксирует коммиты и откаты. Неиспользуемые методы
// унаследованы от вложенного интерфейса и паникуют при вызове.
type stubTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *stubTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *stubTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type stubDB struct {
	DBTX
	tx       *stubTx
	beginErr error
}

func (d *stubDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

type pingRepository struct {
	db DBTX
}

const pingRepoName = RepositoryName("ping")

type UnitOfWorkTestSuite struct {
	suite.Suite
	db  *stubDB
	uow *UnitOfWork
}

func TestUnitOfWorkSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	s.db = &stubDB{tx: &stubTx{}}
	s.uow = NewUnitOfWork(s.db)
	s.Require().NoError(s.uow.Register(pingRepoName, func(db DBTX) Repository {
		return &pingRepository{db: db}
	}))
}

func (s *UnitOfWorkTestSuite) TestRegister_Duplicate() {
	err := s.uow.Register(pingRepoName, func(db DBTX) Repository {
		return &pingRepository{db: db}
	})
	s.Require().ErrorIs(err, ErrRepositoryAlreadyRegistered)
}

func (s *UnitOfWorkTestSuite) TestGetRepository() {
	repo, err := s.uow.GetRepository(pingRepoName)
	s.Require().NoError(err)
	s.IsType(&pingRepository{}, repo)

	_, err = s.uow.GetRepository(RepositoryName("missing"))
	s.Require().ErrorIs(err, ErrRepositoryNotRegistered)
}

func (s *UnitOfWorkTestSuite) TestGetRepositoryAs() {
	repo, err := GetRepositoryAs[*pingRepository](s.uow, pingRepoName)
	s.Require().NoError(err)
	s.Same(s.db, repo.db.(*stubDB))

	_, err = GetRepositoryAs[*stubTx](s.uow, pingRepoName)
	s.Require().ErrorIs(err, ErrInvalidRepositoryType)
}

func (s *UnitOfWorkTestSuite) TestDo_Commits() {
	err := s.uow.Do(s.T().Context(), func(ctx context.Context, tx TX) error {
		// репозиторий внутри транзакции работает через pgx.Tx, а не через пул
		repo, getErr := GetAs[*pingRepository](tx, pingRepoName)
		if getErr != nil {
			return getErr
		}
		s.Same(s.db.tx, repo.db.(*stubTx))
		return nil
	})
	s.Require().NoError(err)
	s.True(s.db.tx.committed)
	s.False(s.db.tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestDo_RollsBackOnError() {
	errBoom := errors.New("ledger write failed")

	err := s.uow.Do(s.T().Context(), func(ctx context.Context, tx TX) error {
		return errBoom
	})
	s.Require().ErrorIs(err, errBoom)
	s.False(s.db.tx.committed)
	s.True(s.db.tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestDo_CommitError() {
	s.db.tx.commitErr = errors.New("commit failed")

	err := s.uow.Do(s.T().Context(), func(ctx context.Context, tx TX) error {
		return nil
	})
	s.Require().ErrorIs(err, s.db.tx.commitErr)
}

func (s *UnitOfWorkTestSuite) TestDo_BeginError() {
	s.db.beginErr = errors.New("no connection")

	err := s.uow.Do(s.T().Context(), func(ctx context.Context, tx TX) error {
		s.Fail("fn must not run without a transaction")
		return nil
	})
	s.Require().ErrorIs(err, s.db.beginErr)
}

func (s *UnitOfWorkTestSuite) TestGetAs_Errors() {
	err := s.uow.Do(s.T().Context(), func(ctx context.Context, tx TX) error {
		if _, getErr := GetAs[*pingRepository](tx, RepositoryName("missing")); !errors.Is(getErr, ErrRepositoryNotRegistered) {
			return errors.New("expected not registered")
		}
		if _, getErr := GetAs[*stubTx](tx, pingRepoName); !errors.Is(getErr, ErrInvalidRepositoryType) {
			return errors.New("expected invalid type")
		}
		return nil
	})
	s.Require().NoError(err)
}
