package payment

import "time"

// DayStart normaliza o instante para 00:00:00.000 UTC do mesmo dia.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd normaliza o instante para 23:59:59.999 UTC do mesmo dia.
func DayEnd(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, time.UTC)
}

// DayKey devolve a chave de bucket do dia no formato 2006-01-02 (UTC).
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// BucketByDay agrupa pagamentos por dia civil UTC em um mapa de contagens.
// A soma de todos os buckets é igual ao total de pagamentos recebidos.
func BucketByDay(payments []Payment) map[string]int64 {
	buckets := make(map[string]int64)
	for _, p := range payments {
		buckets[DayKey(p.DataPagamento)]++
	}
	return buckets
}
