// Package application contém o caso de uso central do guard de abuso: o Guard,
// que orquestra checagens de cota, incrementos, escalonamento para ban e o
// relatório de uso.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Fluxo por requisição: IsBanned -> CheckGlobal -> CheckTool -> Increment.
// Se a requisição for inválida, o chamador usa RecordError.
package application
