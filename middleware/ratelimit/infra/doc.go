// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - CounterStore: mapa concorrente particionado em shards, contadores atômicos
//   - BanTable: fim de ban por cliente, expiração preguiçosa
//   - Sweeper: limpeza periódica de buckets antigos
//   - MemoryStatsStore, RedisStatsStore, PrometheusStatsStore: telemetria das decisões
package infra
