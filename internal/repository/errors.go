package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate は一意制約違反を表すセンチネルエラー。
// 同時リクエストが事前チェックをすり抜けた場合でも、
// サービス層がドライバに依存せず重複を判別できるようにする。
var ErrDuplicate = errors.New("duplicate record")

// PostgreSQLのunique_violationエラーコード
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
